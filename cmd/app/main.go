package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"

	"github.com/1F47E/go-asciireel/internal/errs"
	"github.com/1F47E/go-asciireel/internal/logger"
)

var app = cli.NewApp()
var log = logger.Log

func init() {
	app.Name = "asciireel"
	app.Usage = "Apply an ASCII filter to a video or an image"
	app.UsageText = "asciireel [command] [options] source"
	app.HideVersion = true
	app.Commands = []cli.Command{
		generateCommand(),
		{
			Name:    "presets",
			Aliases: []string{"p"},
			Usage:   "Show the output presets",
			Action: func(c *cli.Context) error {
				printPresets(os.Stdout)
				return nil
			},
		},
		{
			Name:  "config",
			Usage: "Print a config file with the default settings",
			Action: func(c *cli.Context) error {
				return printSampleConfig(os.Stdout)
			},
		},
	}
}

// exit codes per error kind
func exitCode(err error) int {
	switch errs.KindOf(err) {
	case errs.KindConfiguration:
		return 2
	case errs.KindDimension:
		return 3
	case errs.KindProcessing:
		return 4
	case errs.KindResource:
		return 5
	}
	return 1
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	app.Metadata = map[string]interface{}{"ctx": ctx}
	err := app.Run(os.Args)
	stop()
	if err != nil {
		log.Error(err)
		os.Exit(exitCode(err))
	}
}

func appContext(c *cli.Context) context.Context {
	if ctx, ok := c.App.Metadata["ctx"].(context.Context); ok {
		return ctx
	}
	return context.Background()
}
