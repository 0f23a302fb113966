package config

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"os"
	"runtime"

	"github.com/pelletier/go-toml/v2"

	"github.com/1F47E/go-asciireel/internal/glyph"
	"github.com/1F47E/go-asciireel/internal/preset"
)

// Config holds every rendering knob. Zero values are not meaningful, start
// from Default().
type Config struct {
	Glyphs           string     `toml:"glyphs"`
	Chunk            [2]int     `toml:"chunk"`
	Weights          [3]float64 `toml:"weights"`
	Compression      int        `toml:"compression"`
	Quality          int        `toml:"quality"`
	Preset           string     `toml:"preset"`
	FontPath         string     `toml:"font"`
	DefaultFont      string     `toml:"default_font"`
	FontSize         int        `toml:"font_size"`
	FontColor        [3]int     `toml:"font_color"`
	ForceAspectRatio bool       `toml:"force_aspect_ratio"`
	Threads          int        `toml:"threads"`
	FrameTimeout     int        `toml:"frame_timeout_seconds"`
	Mute             bool       `toml:"mute"`
	LogLevel         string     `toml:"log_level"`
}

func Default() Config {
	return Config{
		Glyphs:           DefaultGlyphs,
		Chunk:            [2]int{DefaultChunk, DefaultChunk},
		Weights:          DefaultWeights,
		Compression:      0,
		Quality:          DefaultQuality,
		FontPath:         DefaultFontPath,
		DefaultFont:      DefaultFontPath,
		FontSize:         DefaultFontSize,
		FontColor:        [3]int{255, 255, 255},
		ForceAspectRatio: true,
		Threads:          DefaultThreads(),
		LogLevel:         "info",
	}
}

// DefaultThreads is one worker per CPU, within the worker limit.
func DefaultThreads() int {
	n := runtime.NumCPU()
	if n > MaxThreads {
		n = MaxThreads
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Load reads a TOML file over the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return cfg, fmt.Errorf("parse config %s:%d:%d: %w", path, row, col, err)
		}
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Sample renders the defaults as a TOML document.
func Sample() (string, error) {
	b, err := toml.Marshal(Default())
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (c Config) GlyphSet() (glyph.Set, error) {
	return glyph.NewSet(c.Glyphs)
}

func (c Config) PresetName() (preset.Name, error) {
	return preset.Parse(c.Preset)
}

func (c Config) Color() color.RGBA {
	return color.RGBA{uint8(c.FontColor[0]), uint8(c.FontColor[1]), uint8(c.FontColor[2]), 255}
}

// SourceQuality is the height sources are scaled to; presets pin it.
func (c Config) SourceQuality() int {
	if c.Preset != "" && c.Preset != "none" {
		return preset.SourceQuality
	}
	return c.Quality
}
