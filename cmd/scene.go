package cmd

import (
	"bytes"
	"errors"

	"github.com/achilleasa/lumen/asset/compiler"
	"github.com/achilleasa/lumen/asset/scene/builtin"
	"github.com/achilleasa/lumen/asset/scene/reader"
	"github.com/achilleasa/lumen/asset/scene/writer"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Parse and compile a scene and display its statistics.
func ShowSceneInfo(ctx *cli.Context) error {
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

	logger.Noticef("scene information:\n%s", sc.Stats())
	return nil
}

// List the builtin scenes.
func ListScenes(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Scene", "Description"})
	for _, entry := range builtin.List() {
		table.Append([]string{reader.BuiltinPrefix + entry.Name, entry.Description})
	}

	table.Render()
	logger.Noticef("builtin scenes\n%s", buf.String())
	return nil
}

// Convert a scene (typically a builtin or an obj file) into the json scene
// format so it can be edited by hand.
func ExportScene(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() != 2 {
		return errors.New("expected a scene file and an output file argument")
	}

	parsed, err := reader.ReadScene(ctx.Args().Get(0), ctx.Int64("seed"))
	if err != nil {
		return err
	}

	// Fail on broken scenes instead of exporting them
	if _, err = compiler.Compile(parsed, ctx.Int64("seed")); err != nil {
		return err
	}

	outFile := ctx.Args().Get(1)
	if err = writer.WriteScene(parsed, outFile); err != nil {
		return err
	}

	logger.Noticef("exported scene to %s", outFile)
	return nil
}
