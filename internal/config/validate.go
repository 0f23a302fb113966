package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/1F47E/go-asciireel/internal/errs"
)

// Validate ensures the configuration is usable. Failures are configuration errors.
func (c *Config) Validate() error {
	checks := []func() error{
		c.validateGlyphs,
		c.validateChunk,
		c.validateWeights,
		c.validateCompression,
		c.validateQuality,
		c.validatePreset,
		c.validateFont,
		c.validateThreads,
		c.validateLogLevel,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return errs.Config("validate", err)
		}
	}
	return nil
}

func (c *Config) validateGlyphs() error {
	_, err := c.GlyphSet()
	return err
}

func (c *Config) validateChunk() error {
	for _, v := range c.Chunk {
		if v < 1 || v > MaxChunk {
			return fmt.Errorf("chunk must be between 1 and %d pixels per side, got %dx%d", MaxChunk, c.Chunk[0], c.Chunk[1])
		}
	}
	return nil
}

func (c *Config) validateWeights() error {
	sum := 0.0
	for _, w := range c.Weights {
		if w < 0 || w > 1 {
			return fmt.Errorf("weights must be within [0, 1], got %v", c.Weights)
		}
		sum += w
	}
	if sum == 0 {
		return errors.New("weights must not all be zero")
	}
	return nil
}

func (c *Config) validateCompression() error {
	if c.Compression < 0 || c.Compression > MaxCompression {
		return fmt.Errorf("compression level must be between 0 (none) and %d (max), got %d", MaxCompression, c.Compression)
	}
	return nil
}

func (c *Config) validateQuality() error {
	if !slices.Contains(Qualities, c.Quality) {
		return fmt.Errorf("source quality can only be 360, 480, 720 or 1080, got %d", c.Quality)
	}
	return nil
}

func (c *Config) validatePreset() error {
	_, err := c.PresetName()
	return err
}

func (c *Config) validateFont() error {
	if c.FontSize < 1 || c.FontSize > MaxFontSize {
		return fmt.Errorf("font size must be between 1 and %d, got %d", MaxFontSize, c.FontSize)
	}
	for _, v := range c.FontColor {
		if v < 0 || v > 255 {
			return fmt.Errorf("font color channels must be between 0 and 255, got %v", c.FontColor)
		}
	}
	for _, p := range []string{c.FontPath, c.DefaultFont} {
		if p == "" {
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			return fmt.Errorf("font %s: %w", p, err)
		}
		if info.IsDir() {
			return fmt.Errorf("font %s is a directory", p)
		}
	}
	return nil
}

func (c *Config) validateThreads() error {
	if c.Threads < 1 || c.Threads > MaxThreads {
		return fmt.Errorf("threads must be between 1 and %d, got %d", MaxThreads, c.Threads)
	}
	if c.FrameTimeout < 0 {
		return fmt.Errorf("frame timeout must not be negative, got %d", c.FrameTimeout)
	}
	return nil
}

func (c *Config) validateLogLevel() error {
	if c.LogLevel == "" {
		return nil
	}
	_, err := logrus.ParseLevel(c.LogLevel)
	return err
}
