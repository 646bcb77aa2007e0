package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/achilleasa/lumen/asset"
	"github.com/achilleasa/lumen/types"
	"golang.org/x/image/bmp"
)

func TestChecker(t *testing.T) {
	even := NewSolid(types.Vec3{1, 1, 1})
	odd := NewSolid(types.Vec3{0, 0, 0})
	tex := NewChecker(even, odd)

	type spec struct {
		p   types.Vec3
		exp types.Vec3
	}
	specs := []spec{
		{types.Vec3{0.1, 0.1, 0.1}, even.Color},
		{types.Vec3{-0.1, 0.1, 0.1}, odd.Color},
		{types.Vec3{-0.1, -0.1, 0.1}, even.Color},
	}

	for index, s := range specs {
		if got := tex.Value(0, 0, s.p); got != s.exp {
			t.Fatalf("[spec %d] expected color %v; got %v", index, s.exp, got)
		}
	}
}

func TestPerlin(t *testing.T) {
	p1 := NewPerlin(rand.New(rand.NewSource(1)))
	p2 := NewPerlin(rand.New(rand.NewSource(1)))
	rng := rand.New(rand.NewSource(2))

	for i := 0; i < 1000; i++ {
		p := types.RandVec3(rng, -50, 50)
		n := p1.Noise(p)
		if n < -1.0001 || n > 1.0001 {
			t.Fatalf("[sample %d] expected noise in [-1, 1]; got %f", i, n)
		}
		if n != p2.Noise(p) {
			t.Fatalf("[sample %d] expected identically seeded generators to agree", i)
		}
		if turb := p1.Turbulence(p, 7); turb < 0 {
			t.Fatalf("[sample %d] expected non-negative turbulence; got %f", i, turb)
		}
	}

	// Noise vanishes on lattice points.
	if n := p1.Noise(types.Vec3{3, -2, 7}); math.Abs(n) > 1e-12 {
		t.Fatalf("expected zero noise at lattice point; got %f", n)
	}
}

func TestNoiseTexture(t *testing.T) {
	tex := NewNoise(4, rand.New(rand.NewSource(1)))
	rng := rand.New(rand.NewSource(9))
	for i := 0; i < 100; i++ {
		c := tex.Value(0, 0, types.RandVec3(rng, -5, 5))
		if c[0] < 0 || c[0] > 1 || c[0] != c[1] || c[1] != c[2] {
			t.Fatalf("[sample %d] expected gray value in [0, 1]; got %v", i, c)
		}
	}
}

func makeTestImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	img.Set(1, 0, color.RGBA{0, 255, 0, 255})
	img.Set(0, 1, color.RGBA{0, 0, 255, 255})
	img.Set(1, 1, color.RGBA{255, 255, 255, 255})
	return img
}

func TestImageLookup(t *testing.T) {
	tex := FromImage(makeTestImage())

	type spec struct {
		u, v float64
		exp  types.Vec3
	}
	specs := []spec{
		// v = 1 maps to the top image row
		{0.1, 0.9, types.Vec3{1, 0, 0}},
		{0.9, 0.9, types.Vec3{0, 1, 0}},
		{0.1, 0.1, types.Vec3{0, 0, 1}},
		{1, 0, types.Vec3{1, 1, 1}},
		// out of range coordinates are clamped
		{-3, 7, types.Vec3{1, 0, 0}},
	}

	for index, s := range specs {
		if got := tex.Value(s.u, s.v, types.Vec3{}); got != s.exp {
			t.Fatalf("[spec %d] expected color %v; got %v", index, s.exp, got)
		}
	}
}

func TestDecodeImageResources(t *testing.T) {
	type encoder func(*bytes.Buffer) error
	encoders := map[string]encoder{
		"tex.png": func(buf *bytes.Buffer) error { return png.Encode(buf, makeTestImage()) },
		"tex.bmp": func(buf *bytes.Buffer) error { return bmp.Encode(buf, makeTestImage()) },
	}

	for name, encode := range encoders {
		var buf bytes.Buffer
		if err := encode(&buf); err != nil {
			t.Fatal(err)
		}

		tex, err := New(asset.NewResourceFromStream(name, &buf))
		if err != nil {
			t.Fatalf("[%s] %v", name, err)
		}
		if tex.Width != 2 || tex.Height != 2 {
			t.Fatalf("[%s] expected 2x2 texture; got %dx%d", name, tex.Width, tex.Height)
		}
		if got := tex.Value(0.9, 0.9, types.Vec3{}); got != (types.Vec3{0, 1, 0}) {
			t.Fatalf("[%s] expected green texel; got %v", name, got)
		}
	}

	_, err := New(asset.NewResourceFromStream("garbage.png", strings.NewReader("not an image")))
	if err == nil || !strings.HasPrefix(err.Error(), "texture: could not decode garbage.png") {
		t.Fatalf("expected a decode error; got %v", err)
	}
}
