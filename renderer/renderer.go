package renderer

import "image"

type Renderer interface {
	// Render frame. Each call adds Options.SamplesPerPixel samples to
	// every pixel of the accumulated image.
	Render() error

	// Get the accumulated image converted to displayable colors.
	Image() (*image.RGBA, error)

	// Shutdown renderer and any attached tracer.
	Close()

	// Get render statistics.
	Stats() FrameStats
}
