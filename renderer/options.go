package renderer

import (
	"runtime"
	"time"

	"github.com/achilleasa/lumen/tracer/integrator"
)

const (
	DefaultFrameW          = 512
	DefaultFrameH          = 512
	DefaultSamplesPerPixel = 100
	DefaultGamma           = 2.0
)

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Number of samples per pixel for each rendered frame. Subsequent
	// frames refine the accumulated image.
	SamplesPerPixel uint32

	// Maximum number of bounces per path.
	MaxDepth uint32

	// Number of cpu tracers. Defaults to the number of logical CPUs.
	NumWorkers int

	// Seed for the per-tracer random number generators. A zero value
	// selects a time-based seed.
	Seed int64

	// Gamma used when converting the accumulated radiance to an image.
	Gamma float64
}

// Replace unset options with their default values.
func (o *Options) SetDefaults() {
	if o.FrameW == 0 {
		o.FrameW = DefaultFrameW
	}
	if o.FrameH == 0 {
		o.FrameH = DefaultFrameH
	}
	if o.SamplesPerPixel == 0 {
		o.SamplesPerPixel = DefaultSamplesPerPixel
	}
	if o.MaxDepth == 0 {
		o.MaxDepth = integrator.DefaultMaxDepth
	}
	if o.NumWorkers == 0 {
		o.NumWorkers = runtime.NumCPU()
	}
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
	if o.Gamma <= 0 {
		o.Gamma = DefaultGamma
	}
}
