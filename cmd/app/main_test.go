package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"

	"github.com/1F47E/go-asciireel/internal/config"
	"github.com/1F47E/go-asciireel/internal/errs"
)

func TestExitCode(t *testing.T) {
	assert.Equal(t, 2, exitCode(errs.Configf("x", "bad")))
	assert.Equal(t, 3, exitCode(errs.Dimensionf("x", "bad")))
	assert.Equal(t, 4, exitCode(errs.Processing("x", errors.New("bad"))))
	assert.Equal(t, 5, exitCode(errs.Resource("x", errors.New("bad"))))
	assert.Equal(t, 1, exitCode(errors.New("bad")))
}

func TestPrintPresets(t *testing.T) {
	var buf bytes.Buffer
	printPresets(&buf)
	out := buf.String()
	assert.Contains(t, out, "16:9")
	assert.Contains(t, out, "4:3")
	assert.Contains(t, out, "720")
	assert.Contains(t, out, "1080")
}

func TestPrintSampleConfig(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printSampleConfig(&buf))
	assert.Contains(t, buf.String(), "glyphs")
}

// runFlags parses args with the generate flags and hands the context to fn.
func runFlags(t *testing.T, args []string, fn func(c *cli.Context)) {
	t.Helper()
	a := cli.NewApp()
	cmd := generateCommand()
	cmd.Action = func(c *cli.Context) error {
		fn(c)
		return nil
	}
	a.Commands = []cli.Command{cmd}
	require.NoError(t, a.Run(append([]string{"asciireel", "generate"}, args...)))
}

func TestApplyFlagsOverridesConfig(t *testing.T) {
	runFlags(t, []string{"--chunk", "3x3", "--font-color", "0,255,0", "--keep-aspect-ratio", "--mute", "-t", "3"}, func(c *cli.Context) {
		cfg := config.Default()
		cfg.Glyphs = " .:-=+*#@"
		require.NoError(t, applyFlags(c, &cfg))
		assert.Equal(t, [2]int{3, 3}, cfg.Chunk)
		assert.Equal(t, [3]int{0, 255, 0}, cfg.FontColor)
		assert.False(t, cfg.ForceAspectRatio)
		assert.True(t, cfg.Mute)
		assert.Equal(t, 3, cfg.Threads)
		// unset flags keep the loaded value
		assert.Equal(t, " .:-=+*#@", cfg.Glyphs)
	})
}

func TestApplyFlagsRejectsBadChunk(t *testing.T) {
	runFlags(t, []string{"--chunk", "big"}, func(c *cli.Context) {
		cfg := config.Default()
		assert.Error(t, applyFlags(c, &cfg))
	})
}

func TestFlagDefaultsMatchConfig(t *testing.T) {
	values := map[string]string{}
	for _, f := range generateCommand().Flags {
		if sf, ok := f.(cli.StringFlag); ok {
			values[sf.Name] = sf.Value
		}
	}
	defaults := config.Default()

	chunk, err := config.ParseChunk(values["chunk, k"])
	require.NoError(t, err)
	assert.Equal(t, defaults.Chunk, chunk)

	weights, err := config.ParseWeights(values["gsv, g"])
	require.NoError(t, err)
	assert.Equal(t, defaults.Weights, weights)

	color, err := config.ParseColor(values["font-color"])
	require.NoError(t, err)
	assert.Equal(t, defaults.FontColor, color)
}
