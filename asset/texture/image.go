package texture

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/achilleasa/lumen/asset"
	"github.com/achilleasa/lumen/types"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// A texture backed by a decoded image. Image colors are stored as linear
// RGB values in [0, 1].
type Image struct {
	Width  int
	Height int

	Data []types.Vec3
}

// Create an image texture by decoding a resource. The image format is
// detected from the resource contents.
func New(res *asset.Resource) (*Image, error) {
	img, format, err := image.Decode(res)
	if err != nil {
		return nil, fmt.Errorf("texture: could not decode %s: %s", res.Path(), err.Error())
	}

	tex := FromImage(img)
	if tex.Width == 0 || tex.Height == 0 {
		return nil, fmt.Errorf("texture: %s image %s has zero size", format, res.Path())
	}
	return tex, nil
}

// Create an image texture from an in-memory image.
func FromImage(img image.Image) *Image {
	bounds := img.Bounds()
	tex := &Image{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Data:   make([]types.Vec3, bounds.Dx()*bounds.Dy()),
	}

	for y := 0; y < tex.Height; y++ {
		for x := 0; x < tex.Width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			tex.Data[y*tex.Width+x] = types.Vec3{float64(r) / 0xffff, float64(g) / 0xffff, float64(b) / 0xffff}
		}
	}
	return tex
}

// Look up the texel at (u, v). The v coordinate grows upwards so it is
// flipped before indexing image rows.
func (t *Image) Value(u, v float64, _ types.Vec3) types.Vec3 {
	if len(t.Data) == 0 {
		// Debug color for missing texture data.
		return types.Vec3{0, 1, 1}
	}

	u = clamp(u, 0, 1)
	v = 1 - clamp(v, 0, 1)

	i := int(u * float64(t.Width))
	j := int(v * float64(t.Height))
	if i >= t.Width {
		i = t.Width - 1
	}
	if j >= t.Height {
		j = t.Height - 1
	}
	return t.Data[j*t.Width+i]
}

func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
