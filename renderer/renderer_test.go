package renderer

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/achilleasa/lumen/asset/compiler/bvh"
	"github.com/achilleasa/lumen/asset/material"
	"github.com/achilleasa/lumen/asset/texture"
	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/scene/primitive"
	"github.com/achilleasa/lumen/tracer"
	"github.com/achilleasa/lumen/types"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func TestToByte(t *testing.T) {
	type spec struct {
		in  float64
		exp uint8
	}

	specs := []spec{
		{0, 0},
		{-1, 0},
		{math.NaN(), 0},
		{0.25, 128},
		{1, 255},
		{100, 255},
		{math.Inf(1), 255},
	}

	for specIndex, s := range specs {
		if got := toByte(s.in, 2); got != s.exp {
			t.Fatalf("[spec %d] expected %f to map to %d; got %d", specIndex, s.in, s.exp, got)
		}
	}
}

func TestToImage(t *testing.T) {
	accum := []types.Vec3{
		{1, 0.25 * 4, 0}, {math.NaN(), 4, 8},
	}

	img, err := ToImage(accum, 2, 1, 4, 2)
	if err != nil {
		t.Fatal(err)
	}

	exp := []color.RGBA{
		{R: 128, G: 128, B: 0, A: 255},
		{R: 0, G: 255, B: 255, A: 255},
	}
	for x, c := range exp {
		if got := img.RGBAAt(x, 0); got != c {
			t.Fatalf("[pixel %d] expected %v; got %v", x, c, got)
		}
	}

	if _, err = ToImage(accum, 3, 1, 4, 2); err == nil {
		t.Fatal("expected an error for mismatched buffer length")
	}
	if _, err = ToImage(accum, 2, 1, 0, 2); err != ErrNoSamples {
		t.Fatalf("expected ErrNoSamples; got %v", err)
	}
}

func TestNewDefaultErrors(t *testing.T) {
	if _, err := NewDefault(nil, tracer.NaiveScheduler(), Options{}); err != ErrSceneNotDefined {
		t.Fatalf("expected ErrSceneNotDefined; got %v", err)
	}
	if _, err := NewDefault(scene.NewScene(), tracer.NaiveScheduler(), Options{}); err != ErrCameraNotDefined {
		t.Fatalf("expected ErrCameraNotDefined; got %v", err)
	}

	sc := scene.NewScene()
	sc.SetCamera(scene.NewCamera(types.Vec3{0, 0, 1}, types.Vec3{}, types.Vec3{0, 1, 0}, 60))
	if _, err := NewDefault(sc, tracer.NaiveScheduler(), Options{NumWorkers: -1}); err != ErrNoTracers {
		t.Fatalf("expected ErrNoTracers; got %v", err)
	}
}

func TestRenderFrames(t *testing.T) {
	bg := types.Vec3{0.25, 0.25, 0.25}
	light := primitive.NewXYRect(-1, 1, -1, 1, 0, material.NewDiffuseLight(texture.NewSolid(types.Vec3{1, 1, 1})))

	sc := scene.NewScene()
	sc.Background = bg
	sc.SetCamera(scene.NewCamera(types.Vec3{0, 0, 5}, types.Vec3{}, types.Vec3{0, 1, 0}, 40))
	if err := sc.AddPrimitive(light); err != nil {
		t.Fatal(err)
	}
	world, err := bvh.NewAccelerator(sc.Primitives, 0, 1, rand.New(rand.NewSource(0)))
	if err != nil {
		t.Fatal(err)
	}
	sc.World = world

	opts := Options{
		FrameW:          21,
		FrameH:          13,
		SamplesPerPixel: 2,
		NumWorkers:      3,
		Seed:            1,
	}
	for _, sch := range []tracer.BlockScheduler{tracer.NaiveScheduler(), tracer.PerfectScheduler()} {
		r, err := NewDefault(sc, sch, opts)
		if err != nil {
			t.Fatal(err)
		}

		if _, err = r.Image(); err != ErrNoSamples {
			t.Fatalf("expected ErrNoSamples before rendering; got %v", err)
		}

		for frame := 0; frame < 3; frame++ {
			if err = r.Render(); err != nil {
				r.Close()
				t.Fatal(err)
			}
		}

		stats := r.Stats()
		if stats.FrameCount != 3 || stats.AccumulatedSamples != 6 {
			t.Fatalf("expected 3 frames with 6 accumulated samples; got %d, %d", stats.FrameCount, stats.AccumulatedSamples)
		}
		var rows uint32
		for _, trStat := range stats.Tracers {
			rows += trStat.BlockH
		}
		if len(stats.Tracers) != 3 || rows != opts.FrameH {
			t.Fatalf("expected 3 tracer stats covering %d rows; got %d covering %d", opts.FrameH, len(stats.Tracers), rows)
		}

		img, err := r.Image()
		r.Close()
		if err != nil {
			t.Fatal(err)
		}

		if got := img.RGBAAt(10, 6); got != (color.RGBA{255, 255, 255, 255}) {
			t.Fatalf("expected center pixel to see the light; got %v", got)
		}
		if got := img.RGBAAt(0, 0); got != (color.RGBA{128, 128, 128, 255}) {
			t.Fatalf("expected corner pixel to see the background; got %v", got)
		}
	}
}

func TestEncoders(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			img.SetRGBA(x, y, color.RGBA{A: 255})
		}
	}
	img.SetRGBA(1, 1, color.RGBA{10, 20, 30, 255})

	var buf bytes.Buffer
	if err := EncodePPM(&buf, img); err != nil {
		t.Fatal(err)
	}
	header := "P6\n3 2\n255\n"
	if !bytes.HasPrefix(buf.Bytes(), []byte(header)) {
		t.Fatalf("expected PPM header %q; got %q", header, buf.String()[:len(header)])
	}
	pixels := buf.Bytes()[len(header):]
	if len(pixels) != 3*3*2 {
		t.Fatalf("expected %d pixel bytes; got %d", 3*3*2, len(pixels))
	}
	if offset := 3 * (1*3 + 1); !bytes.Equal(pixels[offset:offset+3], []byte{10, 20, 30}) {
		t.Fatalf("expected pixel (1, 1) to be encoded as [10 20 30]; got %v", pixels[offset:offset+3])
	}

	dir := t.TempDir()
	for _, name := range []string{"out.png", "out.PPM", "out.bmp", "out.tiff"} {
		if err := WriteImage(filepath.Join(dir, name), img); err != nil {
			t.Fatalf("[%s] %s", name, err)
		}
	}

	for name, decode := range map[string]func(*os.File) (image.Image, error){
		"out.bmp":  func(f *os.File) (image.Image, error) { return bmp.Decode(f) },
		"out.tiff": func(f *os.File) (image.Image, error) { return tiff.Decode(f) },
	} {
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			t.Fatal(err)
		}
		decoded, err := decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("[%s] %s", name, err)
		}
		if r, g, b, _ := decoded.At(1, 1).RGBA(); r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
			t.Fatalf("[%s] expected pixel (1, 1) to round-trip; got %d %d %d", name, r>>8, g>>8, b>>8)
		}
	}

	if err := WriteImage(filepath.Join(dir, "out.exr"), img); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat; got %v", err)
	}
}
