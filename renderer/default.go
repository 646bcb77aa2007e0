package renderer

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/achilleasa/lumen/log"
	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/tracer"
	"github.com/achilleasa/lumen/tracer/cpu"
	"github.com/achilleasa/lumen/types"
)

// A renderer that splits each frame into row blocks and distributes them to
// a pool of cpu tracers.
type defaultRenderer struct {
	logger log.Logger

	sc      *scene.Scene
	options Options

	tracers   []tracer.Tracer
	scheduler tracer.BlockScheduler

	// Per-pixel radiance sums shared by all tracers. Tracers only ever
	// write to the rows assigned to them.
	accumBuffer []types.Vec3

	// Channels for receiving block completion and error notifications.
	doneChan chan uint32
	errChan  chan error

	blockAssignments []uint32
	stats            FrameStats
}

// Create a new default renderer using the specified block scheduler.
func NewDefault(sc *scene.Scene, scheduler tracer.BlockScheduler, opts Options) (Renderer, error) {
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if sc.Camera == nil {
		return nil, ErrCameraNotDefined
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	opts.SetDefaults()
	if opts.NumWorkers < 1 {
		return nil, ErrNoTracers
	}

	if err := sc.Camera.SetupProjection(float64(opts.FrameW) / float64(opts.FrameH)); err != nil {
		return nil, err
	}

	r := &defaultRenderer{
		logger:      log.New("renderer"),
		sc:          sc,
		options:     opts,
		scheduler:   scheduler,
		accumBuffer: make([]types.Vec3, opts.FrameW*opts.FrameH),
		doneChan:    make(chan uint32, opts.NumWorkers),
		errChan:     make(chan error, opts.NumWorkers),
	}

	start := time.Now()
	for index := 0; index < opts.NumWorkers; index++ {
		tr := cpu.NewTracer(fmt.Sprintf("cpu-%d", index), index)
		if err := tr.Setup(sc, opts.FrameW, opts.FrameH, r.accumBuffer); err != nil {
			tr.Close()
			r.Close()
			return nil, err
		}
		r.tracers = append(r.tracers, tr)
	}
	r.logger.Infof("setup %d tracers in %d ms", len(r.tracers), time.Since(start).Nanoseconds()/1e6)

	return r, nil
}

// Render next frame. If a tracer fails, the frame is aborted and the error
// is returned; the accumulated image is no longer consistent at that point
// and the renderer should be closed.
func (r *defaultRenderer) Render() error {
	if len(r.tracers) == 0 {
		return ErrNoTracers
	}

	start := time.Now()
	r.blockAssignments = r.scheduler.Schedule(r.tracers, r.options.FrameH)
	seed := r.options.Seed + int64(r.stats.FrameCount)

	var blockY uint32
	pending := 0
	for idx, tr := range r.tracers {
		blockH := r.blockAssignments[idx]
		if blockH == 0 {
			continue
		}

		tr.Enqueue(tracer.BlockRequest{
			BlockY:          blockY,
			BlockH:          blockH,
			SamplesPerPixel: r.options.SamplesPerPixel,
			MaxDepth:        r.options.MaxDepth,
			Seed:            seed,
			DoneChan:        r.doneChan,
			ErrChan:         r.errChan,
		})
		blockY += blockH
		pending++
	}

	// Wait for all tracers to finish
	var err error
	for ; pending > 0; pending-- {
		select {
		case <-r.doneChan:
		case tracerErr := <-r.errChan:
			if err == nil {
				err = tracerErr
			}
		}
	}
	if err != nil {
		r.logger.Errorf("frame %d aborted: %s", r.stats.FrameCount, err.Error())
		return err
	}

	r.stats.FrameCount++
	r.stats.AccumulatedSamples += r.options.SamplesPerPixel
	r.stats.RenderTime = time.Since(start)
	r.updateTracerStats()
	r.logger.Infof(
		"rendered frame %d (%d spp total) in %d ms",
		r.stats.FrameCount, r.stats.AccumulatedSamples, r.stats.RenderTime.Nanoseconds()/1e6,
	)
	return nil
}

func (r *defaultRenderer) updateTracerStats() {
	r.stats.Tracers = r.stats.Tracers[:0]
	for idx, tr := range r.tracers {
		blockH := r.blockAssignments[idx]
		stat := TracerStat{
			Id:           tr.Id(),
			BlockH:       blockH,
			FramePercent: 100.0 * float32(blockH) / float32(r.options.FrameH),
		}
		if blockH != 0 {
			stat.RenderTime = tr.Stats().RenderTime
		}
		r.stats.Tracers = append(r.stats.Tracers, stat)
	}
}

// Convert the accumulated radiance into an image.
func (r *defaultRenderer) Image() (*image.RGBA, error) {
	if r.stats.AccumulatedSamples == 0 {
		return nil, ErrNoSamples
	}
	return ToImage(r.accumBuffer, int(r.options.FrameW), int(r.options.FrameH), r.stats.AccumulatedSamples, r.options.Gamma)
}

// Shutdown renderer and any attached tracer.
func (r *defaultRenderer) Close() {
	for _, tr := range r.tracers {
		tr.Close()
	}
	r.tracers = nil
}

// Get render statistics.
func (r *defaultRenderer) Stats() FrameStats {
	return r.stats
}

// Convert a row-major buffer of per-pixel radiance sums into an image.
// Each sum is averaged over samplesPerPixel, gamma corrected and clamped
// to [0, 0.999] before being quantized; NaN components map to zero.
func ToImage(accumBuffer []types.Vec3, frameW, frameH int, samplesPerPixel uint32, gamma float64) (*image.RGBA, error) {
	if frameW < 1 || frameH < 1 {
		return nil, ErrInvalidFrameSize
	}
	if len(accumBuffer) != frameW*frameH {
		return nil, fmt.Errorf("renderer: expected accumulation buffer with %d entries; got %d", frameW*frameH, len(accumBuffer))
	}
	if samplesPerPixel == 0 {
		return nil, ErrNoSamples
	}

	scale := 1.0 / float64(samplesPerPixel)
	img := image.NewRGBA(image.Rect(0, 0, frameW, frameH))
	for y := 0; y < frameH; y++ {
		for x := 0; x < frameW; x++ {
			sum := accumBuffer[y*frameW+x]
			img.SetRGBA(x, y, color.RGBA{
				R: toByte(sum[0]*scale, gamma),
				G: toByte(sum[1]*scale, gamma),
				B: toByte(sum[2]*scale, gamma),
				A: 255,
			})
		}
	}
	return img, nil
}

func toByte(c, gamma float64) uint8 {
	if math.IsNaN(c) || c <= 0 {
		return 0
	}
	if gamma == 2 {
		c = math.Sqrt(c)
	} else {
		c = math.Pow(c, 1/gamma)
	}
	return uint8(256 * math.Min(c, 0.999))
}
