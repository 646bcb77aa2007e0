package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/achilleasa/lumen/asset/compiler"
	"github.com/achilleasa/lumen/asset/compiler/input"
	"github.com/achilleasa/lumen/asset/scene/reader"
	"github.com/achilleasa/lumen/renderer"
	"github.com/achilleasa/lumen/tracer"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	// Encoder lookup happens before rendering so a bad extension fails fast
	imgFile := ctx.String("out")
	if _, err := renderer.EncoderFor(imgFile); err != nil {
		return err
	}

	scheduler, err := schedulerByName(ctx.String("scheduler"))
	if err != nil {
		return err
	}

	seed := ctx.Int64("seed")
	parsed, err := reader.ReadScene(ctx.Args().First(), seed)
	if err != nil {
		return err
	}

	opts := renderOptions(ctx, parsed.Render)
	opts.Seed = seed

	sc, err := compiler.Compile(parsed, seed)
	if err != nil {
		return err
	}
	logger.Infof("scene information:\n%s", sc.Stats())

	r, err := renderer.NewDefault(sc, scheduler, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	interrupted := make(chan os.Signal, 1)
	signal.Notify(interrupted, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupted)

	frames := ctx.Int("frames")
	if frames < 1 {
		frames = 1
	}

	logger.Noticef("rendering %dx%d frame with %d spp over %d pass(es)", opts.FrameW, opts.FrameH, opts.SamplesPerPixel, frames)
	var renderErr error
	for frame := 0; frame < frames && renderErr == nil; frame++ {
		select {
		case <-interrupted:
			renderErr = renderer.ErrInterrupted
			continue
		default:
		}

		renderErr = r.Render()
	}

	stats := r.Stats()
	if stats.FrameCount != 0 {
		displayFrameStats(stats)
	}

	// Keep whatever was accumulated before an interruption
	if renderErr != nil && !errors.Is(renderErr, renderer.ErrInterrupted) {
		return renderErr
	}
	if stats.AccumulatedSamples == 0 {
		return renderErr
	}

	img, err := r.Image()
	if err != nil {
		return err
	}
	if err = renderer.WriteImage(imgFile, img); err != nil {
		return err
	}
	logger.Noticef("wrote %d spp frame to %s", stats.AccumulatedSamples, imgFile)

	return renderErr
}

// Merge the command line flags with the render settings suggested by the
// scene. Flags that were explicitly set always win.
func renderOptions(ctx *cli.Context, suggested *input.RenderOptions) renderer.Options {
	if suggested == nil {
		suggested = &input.RenderOptions{}
	}

	pick := func(flag string, sceneValue int) uint32 {
		if !ctx.IsSet(flag) && sceneValue > 0 {
			return uint32(sceneValue)
		}
		return uint32(ctx.Int(flag))
	}

	opts := renderer.Options{
		FrameW:          pick("width", suggested.Width),
		FrameH:          pick("height", suggested.Height),
		SamplesPerPixel: pick("spp", suggested.SamplesPerPixel),
		MaxDepth:        pick("max-depth", suggested.MaxDepth),
		NumWorkers:      ctx.Int("workers"),
		Gamma:           ctx.Float64("gamma"),
	}

	if !ctx.IsSet("gamma") && suggested.Gamma > 0 {
		opts.Gamma = suggested.Gamma
	}

	return opts
}

func schedulerByName(name string) (tracer.BlockScheduler, error) {
	switch name {
	case "naive":
		return tracer.NaiveScheduler(), nil
	case "perfect", "":
		return tracer.PerfectScheduler(), nil
	}
	return nil, fmt.Errorf("unknown block scheduler %q", name)
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Tracer", "Block height", "% of frame", "Render time"})
	for _, stat := range stats.Tracers {
		table.Append([]string{
			stat.Id,
			fmt.Sprintf("%d", stat.BlockH),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			stat.RenderTime.String(),
		})
	}
	table.SetFooter([]string{
		fmt.Sprintf("%d frame(s)", stats.FrameCount),
		fmt.Sprintf("%d spp", stats.AccumulatedSamples),
		"LAST FRAME",
		stats.RenderTime.String(),
	})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}
