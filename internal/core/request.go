package core

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/1F47E/go-asciireel/internal/config"
	"github.com/1F47E/go-asciireel/internal/errs"
	"github.com/1F47E/go-asciireel/internal/meta"
)

const DefaultName = "ascii"

// Request describes one generate run.
type Request struct {
	Source      string
	Destination string
	// Name is the output file name without extension.
	Name   string
	Config config.Config

	// Start and End trim a video source, in seconds. Nil means the
	// beginning and the end of the source.
	Start *float64
	End   *float64
	// Frame renders the single video frame at this second as a PNG.
	Frame *float64
}

func (r Request) name() (string, error) {
	name := r.Name
	if name == "" {
		name = DefaultName
	}
	if strings.ContainsRune(name, filepath.Separator) || name == "." || name == ".." {
		return "", errs.Configf("request", "output name %q must be a plain file name", name)
	}
	return strings.TrimSuffix(name, filepath.Ext(name)), nil
}

// segment resolves the requested window against the source duration.
func (r Request) segment(info meta.Info) (start, end float64, err error) {
	start, end = 0, info.Duration
	if r.Start == nil && r.End == nil {
		return start, end, nil
	}
	if info.Duration <= 0 {
		return 0, 0, errs.Configf("segment", "source duration is unknown, cannot trim")
	}
	if r.Start != nil {
		start = *r.Start
	}
	if r.End != nil {
		end = *r.End
	}
	if start < 0 || start > info.Duration {
		return 0, 0, errs.Config("segment", fmt.Errorf("start %.2fs is outside the video (0-%.2fs)", start, info.Duration))
	}
	if end < 0 || end > info.Duration {
		return 0, 0, errs.Config("segment", fmt.Errorf("end %.2fs is outside the video (0-%.2fs)", end, info.Duration))
	}
	if start >= end {
		return 0, 0, errs.Configf("segment", "start %.2fs must be before end %.2fs", start, end)
	}
	return start, end, nil
}

func (r Request) frameAt(info meta.Info) (float64, error) {
	second := *r.Frame
	if second < 0 || (info.Duration > 0 && second >= info.Duration) {
		return 0, errs.Configf("frame", "frame at %.2fs is outside the video (0-%.2fs)", second, info.Duration)
	}
	return second, nil
}
