package cmd

import (
	"github.com/achilleasa/lumen/log"
	"github.com/urfave/cli"
)

var logger = log.New("lumen")

// Configure the log level and output format from the global flags. An
// explicit --log-level takes precedence over -v and -vv.
func setupLogging(ctx *cli.Context) error {
	log.SetColors(!ctx.GlobalBool("no-color"))

	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}

	if name := ctx.GlobalString("log-level"); name != "" {
		level, err := log.ParseLevel(name)
		if err != nil {
			return err
		}
		log.SetLevel(level)
	}

	return nil
}
