package tracer

import (
	"time"

	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/types"
)

// A unit of work that is processed by a tracer.
type BlockRequest struct {
	// Block start row and height.
	BlockY uint32
	BlockH uint32

	// The number of radiance samples per traced pixel.
	SamplesPerPixel uint32

	// The maximum number of bounces per path.
	MaxDepth uint32

	// A random seed value for the tracer's random number generator.
	Seed int64

	// A channel to signal on block completion with the number of completed rows.
	DoneChan chan<- uint32

	// A channel to signal if an error occurs.
	ErrChan chan<- error
}

// Tracer statistics.
type Stats struct {
	// The rendered block height
	BlockH uint32

	// The time for rendering this block.
	RenderTime time.Duration
}

type Tracer interface {
	// Get tracer id.
	Id() string

	// Shutdown and cleanup tracer.
	Close()

	// Get the tracers computation speed estimate compared to a
	// baseline (single core) implementation.
	SpeedEstimate() float32

	// Setup the tracer. Rendered samples are added to the accumulation
	// buffer which holds frameW * frameH entries stored in row-major order.
	Setup(sc *scene.Scene, frameW, frameH uint32, accumBuffer []types.Vec3) error

	// Enqueue block request.
	Enqueue(BlockRequest)

	// Retrieve last frame statistics.
	Stats() *Stats
}
