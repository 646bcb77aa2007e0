package renderer

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// An image encoder for a particular file format.
type Encoder func(w io.Writer, img image.Image) error

var encoders = map[string]Encoder{
	".png":  png.Encode,
	".ppm":  EncodePPM,
	".bmp":  bmp.Encode,
	".tif":  encodeTIFF,
	".tiff": encodeTIFF,
}

// Get the encoder for a file name based on its extension.
func EncoderFor(filename string) (Encoder, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	enc, ok := encoders[ext]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrUnsupportedFormat, ext)
	}
	return enc, nil
}

// Encode img into filename using the format indicated by its extension.
func WriteImage(filename string, img image.Image) error {
	enc, err := EncoderFor(filename)
	if err != nil {
		return err
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("renderer: could not create '%s': %s", filename, err.Error())
	}

	bw := bufio.NewWriter(f)
	if err = enc(bw, img); err == nil {
		err = bw.Flush()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("renderer: could not write '%s': %s", filename, err.Error())
	}
	return nil
}

// Encode img as a binary (P6) portable pixmap.
func EncodePPM(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	if _, err := fmt.Fprintf(w, "P6\n%d %d\n255\n", bounds.Dx(), bounds.Dy()); err != nil {
		return err
	}

	row := make([]byte, 3*bounds.Dx())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			offset := 3 * (x - bounds.Min.X)
			row[offset] = uint8(r >> 8)
			row[offset+1] = uint8(g >> 8)
			row[offset+2] = uint8(b >> 8)
		}
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func encodeTIFF(w io.Writer, img image.Image) error {
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
}
