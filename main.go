package main

import (
	"fmt"
	"os"

	"github.com/achilleasa/lumen/cmd"
	"github.com/achilleasa/lumen/renderer"
	"github.com/achilleasa/lumen/tracer/integrator"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	seedFlag := cli.Int64Flag{
		Name:  "seed",
		Value: 1,
		Usage: "seed for random scene generation, BVH construction and sampling",
	}

	app := cli.NewApp()
	app.Name = "lumen"
	app.Usage = "render scenes using monte-carlo path tracing"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "set log level (debug, info, notice, warning, error)",
		},
		cli.BoolFlag{
			Name:  "no-color",
			Usage: "disable colored log output",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a still frame",
			Description: `
Parse a scene from a json or wavefront obj file (or use one of the builtin
scenes via the builtin:<name> syntax), build a BVH over its geometry and
render it using all available CPU cores.

Render settings suggested by the scene are used unless overridden by the
matching flags. When more than one frame is requested, each frame adds
--spp samples per pixel to the accumulated image. Interrupting the render
saves the frames completed so far.`,
			ArgsUsage: "scene_file",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: renderer.DefaultFrameW,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: renderer.DefaultFrameH,
					Usage: "frame height",
				},
				cli.IntFlag{
					Name:  "spp",
					Value: renderer.DefaultSamplesPerPixel,
					Usage: "samples per pixel for each frame",
				},
				cli.IntFlag{
					Name:  "max-depth",
					Value: integrator.DefaultMaxDepth,
					Usage: "max number of bounces per path",
				},
				cli.IntFlag{
					Name:  "workers",
					Usage: "number of cpu tracers (defaults to the number of cpus)",
				},
				cli.IntFlag{
					Name:  "frames",
					Value: 1,
					Usage: "number of progressive frames to accumulate",
				},
				cli.Float64Flag{
					Name:  "gamma",
					Value: renderer.DefaultGamma,
					Usage: "gamma used when converting radiance to colors",
				},
				cli.StringFlag{
					Name:  "scheduler",
					Value: "perfect",
					Usage: "block scheduler (naive, perfect)",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame.png",
					Usage: "image filename for the rendered frame (png, ppm, bmp, tif)",
				},
				seedFlag,
			},
			Action: cmd.RenderFrame,
		},
		{
			Name:      "scene-info",
			Usage:     "display information about a scene",
			ArgsUsage: "scene_file",
			Flags:     []cli.Flag{seedFlag},
			Action:    cmd.ShowSceneInfo,
		},
		{
			Name:   "list-scenes",
			Usage:  "list the builtin scenes",
			Action: cmd.ListScenes,
		},
		{
			Name:  "export",
			Usage: "export a scene to the json scene format",
			Description: `
Read a scene (including builtin scenes) and write it out as a json scene file
that can be edited and rendered later.`,
			ArgsUsage: "scene_file out_file.json",
			Flags:     []cli.Flag{seedFlag},
			Action:    cmd.ExportScene,
		},
		{
			Name:      "debug",
			Usage:     "trace a single pixel and report what it sees",
			ArgsUsage: "scene_file",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "width", Value: renderer.DefaultFrameW, Usage: "frame width"},
				cli.IntFlag{Name: "height", Value: renderer.DefaultFrameH, Usage: "frame height"},
				cli.IntFlag{Name: "x", Usage: "pixel column"},
				cli.IntFlag{Name: "y", Usage: "pixel row (0 is the top row)"},
				cli.IntFlag{Name: "spp", Value: 16, Usage: "samples per pixel"},
				cli.IntFlag{Name: "max-depth", Value: integrator.DefaultMaxDepth, Usage: "max number of bounces per path"},
				seedFlag,
			},
			Action: cmd.Debug,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		os.Exit(1)
	}
}
