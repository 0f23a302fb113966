package main

import (
	"github.com/urfave/cli"

	"github.com/1F47E/go-asciireel/internal/config"
	"github.com/1F47E/go-asciireel/internal/core"
	"github.com/1F47E/go-asciireel/internal/errs"
	"github.com/1F47E/go-asciireel/internal/logger"
	"github.com/1F47E/go-asciireel/internal/progress"
)

func generateCommand() cli.Command {
	defaults := config.Default()
	return cli.Command{
		Name:      "generate",
		Aliases:   []string{"g"},
		Usage:     "Apply the ASCII filter to a video or an image",
		ArgsUsage: "[source]",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "source, o", Usage: "path to the image or video"},
			cli.StringFlag{Name: "destination, d", Usage: "output folder, created when missing", Value: "."},
			cli.StringFlag{Name: "filename, f", Usage: "output file name", Value: core.DefaultName},
			cli.StringFlag{Name: "config", Usage: "TOML file with settings, flags take precedence"},
			cli.Float64Flag{Name: "start, s", Usage: "trim the video, start point in seconds"},
			cli.Float64Flag{Name: "end, e", Usage: "trim the video, end point in seconds"},
			cli.Float64Flag{Name: "frame, r", Usage: "turn the frame at this second into an image (start/end are ignored)"},
			cli.IntFlag{Name: "threads, t", Usage: "number of workers (1-32)", Value: defaults.Threads},
			cli.StringFlag{Name: "chars, a", Usage: "glyphs from dark to light (2, 3, 5 or 9)", Value: defaults.Glyphs},
			cli.StringFlag{Name: "preset, p", Usage: "720 or 1080, overrides chunk, font and quality"},
			cli.IntFlag{Name: "quality, q", Usage: "source height before filtering: 360, 480, 720 or 1080", Value: defaults.Quality},
			cli.StringFlag{Name: "chunk, k", Usage: "pixels consolidated into one glyph, WxH", Value: formatChunk(defaults.Chunk)},
			cli.StringFlag{Name: "gsv, g", Usage: "RGB desaturation weights", Value: formatWeights(defaults.Weights)},
			cli.IntFlag{Name: "compression, c", Usage: "PNG compression level (0-9)", Value: defaults.Compression},
			cli.StringFlag{Name: "font", Usage: "path to a TrueType font, embedded Go Mono when empty"},
			cli.IntFlag{Name: "font-size", Usage: "glyph size in pixels", Value: defaults.FontSize},
			cli.StringFlag{Name: "font-color", Usage: "glyph colour R,G,B", Value: formatColor(defaults.FontColor)},
			cli.IntFlag{Name: "frame-timeout", Usage: "seconds a single frame may take, 0 disables"},
			cli.BoolFlag{Name: "keep-aspect-ratio", Usage: "do not pad videos narrower than 16:9"},
			cli.BoolFlag{Name: "mute", Usage: "drop the audio track"},
			cli.BoolFlag{Name: "quiet", Usage: "suppress console messages and the progress bar"},
			cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
		},
		Action: runGenerate,
	}
}

func runGenerate(c *cli.Context) error {
	source := c.String("source")
	if source == "" {
		source = c.Args().Get(0)
	}
	if source == "" {
		return errs.Configf("generate", "source is required")
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return errs.Config("config", err)
	}
	if err := applyFlags(c, &cfg); err != nil {
		return errs.Config("flags", err)
	}
	if err := logger.Configure(cfg.LogLevel, c.Bool("quiet")); err != nil {
		return errs.Config("log level", err)
	}

	req := core.Request{
		Source:      source,
		Destination: c.String("destination"),
		Name:        c.String("filename"),
		Config:      cfg,
	}
	if c.IsSet("frame") {
		v := c.Float64("frame")
		req.Frame = &v
	} else {
		if c.IsSet("start") {
			v := c.Float64("start")
			req.Start = &v
		}
		if c.IsSet("end") {
			v := c.Float64("end")
			req.End = &v
		}
	}

	if !c.Bool("quiet") {
		printSettings(c.App.Writer, cfg)
	}

	out, err := core.NewCore(appContext(c), progress.ForTerminal(c.Bool("quiet"))).Generate(req)
	if err != nil {
		return err
	}
	log.Infof("Done: %s", out)
	return nil
}

// applyFlags copies explicitly set flags over the loaded config.
func applyFlags(c *cli.Context, cfg *config.Config) error {
	if c.IsSet("threads") {
		cfg.Threads = c.Int("threads")
	}
	if c.IsSet("chars") {
		cfg.Glyphs = c.String("chars")
	}
	if c.IsSet("preset") {
		cfg.Preset = c.String("preset")
	}
	if c.IsSet("quality") {
		cfg.Quality = c.Int("quality")
	}
	if c.IsSet("chunk") {
		v, err := config.ParseChunk(c.String("chunk"))
		if err != nil {
			return err
		}
		cfg.Chunk = v
	}
	if c.IsSet("gsv") {
		v, err := config.ParseWeights(c.String("gsv"))
		if err != nil {
			return err
		}
		cfg.Weights = v
	}
	if c.IsSet("compression") {
		cfg.Compression = c.Int("compression")
	}
	if c.IsSet("font") {
		cfg.FontPath = c.String("font")
	}
	if c.IsSet("font-size") {
		cfg.FontSize = c.Int("font-size")
	}
	if c.IsSet("font-color") {
		v, err := config.ParseColor(c.String("font-color"))
		if err != nil {
			return err
		}
		cfg.FontColor = v
	}
	if c.IsSet("frame-timeout") {
		cfg.FrameTimeout = c.Int("frame-timeout")
	}
	if c.Bool("keep-aspect-ratio") {
		cfg.ForceAspectRatio = false
	}
	if c.Bool("mute") {
		cfg.Mute = true
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	return nil
}
