package cmd

import (
	"errors"
	"math"
	"math/rand"

	"github.com/achilleasa/lumen/asset/compiler"
	"github.com/achilleasa/lumen/asset/scene/reader"
	"github.com/achilleasa/lumen/tracer/integrator"
	"github.com/urfave/cli"
)

// Trace a single pixel and report the primary hit and the estimated radiance.
func Debug(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	seed := ctx.Int64("seed")
	parsed, err := reader.ReadScene(ctx.Args().First(), seed)
	if err != nil {
		return err
	}

	sc, err := compiler.Compile(parsed, seed)
	if err != nil {
		return err
	}

	frameW, frameH := ctx.Int("width"), ctx.Int("height")
	x, y := ctx.Int("x"), ctx.Int("y")
	if x < 0 || x >= frameW || y < 0 || y >= frameH {
		return errors.New("pixel coordinates are outside the frame")
	}
	if err = sc.Camera.SetupProjection(float64(frameW) / float64(frameH)); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(seed))

	// Primary ray through the pixel center; rows are counted from the top
	s := (float64(x) + 0.5) / math.Max(float64(frameW-1), 1)
	t := 1.0 - (float64(y)+0.5)/math.Max(float64(frameH-1), 1)
	ray := sc.Camera.GetRay(s, t, rng)
	if rec, hit := sc.Hit(ray, 0.001, math.Inf(1), rng); hit {
		logger.Noticef(
			"primary ray %v hits %T at t=%.4f (point %v, normal %v, front face: %t)",
			ray.Dir, rec.Material, rec.T, rec.Point, rec.Normal, rec.FrontFace,
		)
	} else {
		logger.Noticef("primary ray %v escapes the scene", ray.Dir)
	}

	radiance := integrator.RenderPixel(x, y, frameW, frameH, sc, ctx.Int("spp"), ctx.Int("max-depth"), rng)
	logger.Noticef("pixel (%d, %d) radiance after %d spp: %v", x, y, ctx.Int("spp"), radiance)
	return nil
}
