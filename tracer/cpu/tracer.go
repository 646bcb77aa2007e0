package cpu

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/achilleasa/lumen/log"
	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/tracer"
	"github.com/achilleasa/lumen/tracer/integrator"
	"github.com/achilleasa/lumen/types"
)

var (
	ErrNotSetup          = errors.New("cpu tracer: tracer has not been set up")
	ErrInvalidBlock      = errors.New("cpu tracer: block exceeds frame bounds")
	ErrAccumBufferLength = errors.New("cpu tracer: accumulation buffer length does not match frame dimensions")
)

type cpuTracer struct {
	logger log.Logger

	sync.Mutex
	wg sync.WaitGroup

	// The tracer id and its index in the tracer pool.
	id    string
	index int64

	// A channel for receiving block requests from the renderer.
	blockReqChan chan tracer.BlockRequest

	// A channel for signaling the worker to exit.
	closeChan chan struct{}

	// Statistics for last rendered block.
	stats *tracer.Stats

	// Frame state.
	sc          *scene.Scene
	frameW      uint32
	frameH      uint32
	accumBuffer []types.Vec3
}

// Create a new cpu tracer. The index is mixed into every block seed so
// that tracers sharing the same request seed draw independent samples.
func NewTracer(id string, index int) tracer.Tracer {
	return &cpuTracer{
		logger:       log.New(fmt.Sprintf("cpu tracer (%s)", id)),
		id:           id,
		index:        int64(index),
		blockReqChan: make(chan tracer.BlockRequest, 1),
		stats:        &tracer.Stats{},
	}
}

// Get tracer id.
func (tr *cpuTracer) Id() string {
	return tr.id
}

// Every cpu tracer runs on a single goroutine so all of them share the same
// speed estimate.
func (tr *cpuTracer) SpeedEstimate() float32 {
	return 1.0
}

// Attach the scene and the shared accumulation buffer and start the worker.
func (tr *cpuTracer) Setup(sc *scene.Scene, frameW, frameH uint32, accumBuffer []types.Vec3) error {
	tr.Lock()
	defer tr.Unlock()

	if uint32(len(accumBuffer)) != frameW*frameH {
		return ErrAccumBufferLength
	}

	tr.sc = sc
	tr.frameW = frameW
	tr.frameH = frameH
	tr.accumBuffer = accumBuffer

	if tr.closeChan == nil {
		tr.startWorker()
	}
	return nil
}

// Shutdown and cleanup tracer.
func (tr *cpuTracer) Close() {
	tr.Lock()
	defer tr.Unlock()

	// If the worker is running shut it down
	if tr.closeChan != nil {
		tr.closeChan <- struct{}{}

		// wait for worker to ack close and exit
		<-tr.closeChan
		tr.wg.Wait()
		close(tr.closeChan)
		tr.closeChan = nil
	}

	tr.sc = nil
	tr.accumBuffer = nil
}

// Enqueue block request.
func (tr *cpuTracer) Enqueue(blockReq tracer.BlockRequest) {
	tr.blockReqChan <- blockReq
}

// Retrieve last frame statistics.
func (tr *cpuTracer) Stats() *tracer.Stats {
	return tr.stats
}

// Spawn a go-routine to process block render requests.
func (tr *cpuTracer) startWorker() {
	tr.closeChan = make(chan struct{})
	readyChan := make(chan struct{})
	tr.wg.Add(1)
	go func() {
		defer tr.wg.Done()
		var blockReq tracer.BlockRequest
		var startTime time.Time
		close(readyChan)
		for {
			select {
			case blockReq = <-tr.blockReqChan:
				startTime = time.Now()
				if err := tr.renderBlock(&blockReq); err != nil {
					blockReq.ErrChan <- err
					continue
				}

				// Update stats
				tr.stats.BlockH = blockReq.BlockH
				tr.stats.RenderTime = time.Since(startTime)

				blockReq.DoneChan <- blockReq.BlockH
			case <-tr.closeChan:
				// Ack close
				tr.closeChan <- struct{}{}
				return
			}
		}
	}()

	// Wait for go-routine to start
	<-readyChan
}

// Render block rows and add the summed samples to the accumulation buffer.
// A panic while sampling aborts the whole block.
func (tr *cpuTracer) renderBlock(blockReq *tracer.BlockRequest) (err error) {
	if tr.sc == nil {
		return ErrNotSetup
	}
	if blockReq.BlockY+blockReq.BlockH > tr.frameH {
		return ErrInvalidBlock
	}

	defer func() {
		if r := recover(); r != nil {
			tr.logger.Errorf("recovered from panic while rendering block [%d, %d): %v", blockReq.BlockY, blockReq.BlockY+blockReq.BlockH, r)
			err = fmt.Errorf("cpu tracer: %s: sampling failed: %v", tr.id, r)
		}
	}()

	// The generator is owned by this goroutine.
	rng := rand.New(rand.NewSource(blockReq.Seed*7919 + tr.index))

	frameW := int(tr.frameW)
	frameH := int(tr.frameH)
	spp := int(blockReq.SamplesPerPixel)
	maxDepth := int(blockReq.MaxDepth)
	if maxDepth == 0 {
		maxDepth = integrator.DefaultMaxDepth
	}

	// Render into a private buffer first so a failed block leaves the
	// accumulation buffer untouched.
	rows := make([]types.Vec3, frameW*int(blockReq.BlockH))
	for y := 0; y < int(blockReq.BlockH); y++ {
		frameY := int(blockReq.BlockY) + y
		for x := 0; x < frameW; x++ {
			rows[y*frameW+x] = integrator.RenderPixel(x, frameY, frameW, frameH, tr.sc, spp, maxDepth, rng)
		}
	}

	offset := int(blockReq.BlockY) * frameW
	for i, sum := range rows {
		tr.accumBuffer[offset+i] = tr.accumBuffer[offset+i].Add(sum)
	}

	tr.logger.Debugf("rendered rows [%d, %d) with %d spp", blockReq.BlockY, blockReq.BlockY+blockReq.BlockH, spp)
	return nil
}
