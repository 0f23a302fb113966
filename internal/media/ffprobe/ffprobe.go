// Package ffprobe wraps the ffprobe JSON report of a media file.
package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

type Stream struct {
	Index        int    `json:"index"`
	CodecName    string `json:"codec_name"`
	CodecType    string `json:"codec_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	AvgFrameRate string `json:"avg_frame_rate"`
	NbFrames     string `json:"nb_frames"`
	Duration     string `json:"duration"`
}

type Format struct {
	Filename   string `json:"filename"`
	Duration   string `json:"duration"`
	FormatName string `json:"format_name"`
}

// Inspect runs ffprobe (binary defaults to "ffprobe") against path.
func Inspect(ctx context.Context, binary, path string) (Result, error) {
	if strings.TrimSpace(binary) == "" {
		binary = "ffprobe"
	}
	if strings.TrimSpace(path) == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}
	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{}, fmt.Errorf("ffprobe inspect: %w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return Result{}, fmt.Errorf("ffprobe inspect: %w", err)
	}
	return Parse(out)
}

func Parse(data []byte) (Result, error) {
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return r, nil
}

func (r Result) count(kind string) int {
	n := 0
	for _, s := range r.Streams {
		if strings.EqualFold(s.CodecType, kind) {
			n++
		}
	}
	return n
}

func (r Result) VideoStreamCount() int { return r.count("video") }
func (r Result) AudioStreamCount() int { return r.count("audio") }

// DurationSeconds is the container duration, 0 when missing and NaN when malformed.
func (r Result) DurationSeconds() float64 {
	return parseFloat(r.Format.Duration)
}

// FrameRate returns the average frame rate of the first video stream.
func (r Result) FrameRate() float64 {
	for _, s := range r.Streams {
		if !strings.EqualFold(s.CodecType, "video") {
			continue
		}
		num, den, ok := strings.Cut(s.AvgFrameRate, "/")
		if !ok {
			return parseFloat(s.AvgFrameRate)
		}
		n, d := parseFloat(num), parseFloat(den)
		if d == 0 || math.IsNaN(n) || math.IsNaN(d) {
			return 0
		}
		return n / d
	}
	return 0
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	if v, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return v
	}
	return math.NaN()
}
