package video

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/1F47E/go-asciireel/internal/logger"
	"github.com/1F47E/go-asciireel/internal/media/ffprobe"
)

// HasAudio reports whether the source carries at least one audio stream.
func HasAudio(ctx context.Context, filename string) (bool, error) {
	res, err := ffprobe.Inspect(ctx, "", filename)
	if err != nil {
		return false, err
	}
	return res.AudioStreamCount() > 0, nil
}

// call ffmpeg to cut the audio track of [start, end) seconds into dst
func ExtractAudio(ctx context.Context, filename, dst string, start, end float64) error {
	args := []string{
		"-y", "-v", "error",
		"-ss", formatSeconds(start),
		"-to", formatSeconds(end),
		"-i", filename,
		"-vn", "-c:a", "aac",
		dst,
	}
	logger.Log.Debugf("Running ffmpeg command: ffmpeg %s\n", strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("extract audio: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 3, 64)
}
