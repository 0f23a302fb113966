package media

import (
	"context"
	"fmt"
	"image"
	"math"

	vidio "github.com/AlexEidt/Vidio"

	"github.com/1F47E/go-asciireel/internal/job"
	"github.com/1F47E/go-asciireel/internal/meta"
	"github.com/1F47E/go-asciireel/internal/video"
)

// FrameReader yields tightly packed RGBA frames of the video size.
type FrameReader interface {
	ReadFrame(pix []byte) (bool, error)
	Close() error
}

// Decoder starts a frame stream from the first frame of the video.
type Decoder func(ctx context.Context) (FrameReader, error)

// Video reads decoded frames of a video file one at a time.
type Video struct {
	info   meta.Info
	decode Decoder
	r      FrameReader
	buf    []byte
	pos    int // frames read from the decoder so far
	first  int // first decoder frame to emit, 1-based
	last   int // last decoder frame to emit, 0 means until EOF
}

// OpenVideo probes the stream with Vidio. Frames are decoded later through
// an ffmpeg pipe bound to the caller's context.
func OpenVideo(path string) (*Video, error) {
	v, err := vidio.NewVideo(path)
	if err != nil {
		return nil, fmt.Errorf("open video %s: %w", path, err)
	}
	info := meta.Info{
		Width:    v.Width(),
		Height:   v.Height(),
		FPS:      v.FPS(),
		Duration: v.Duration(),
		Frames:   v.Frames(),
	}
	v.Close()
	if info.Width <= 0 || info.Height <= 0 || info.FPS <= 0 {
		return nil, fmt.Errorf("video %s has no usable video stream", path)
	}
	return NewVideo(info, func(ctx context.Context) (FrameReader, error) {
		return video.OpenReader(ctx, path, info.Width, info.Height)
	}), nil
}

func NewVideo(info meta.Info, decode Decoder) *Video {
	return &Video{info: info, decode: decode, first: 1}
}

func (v *Video) Info() meta.Info {
	return v.info
}

// Trim limits the frames emitted to the [start, end) window in seconds.
// Frame indexes restart at 1 inside the window.
func (v *Video) Trim(start, end float64) {
	v.first = int(math.Floor(start*v.info.FPS)) + 1
	v.last = int(math.Ceil(end * v.info.FPS))
}

// Window returns the frame rate and duration of the trimmed sequence.
func (v *Video) Window() meta.Info {
	info := v.info
	if v.last > 0 {
		info.Frames = v.last - v.first + 1
		info.Duration = float64(info.Frames) / info.FPS
	} else if v.first > 1 {
		info.Frames = 0
		info.Duration = math.Max(0, info.Duration-float64(v.first-1)/info.FPS)
	}
	return info
}

// Trimmed reports whether Trim or FrameAt bounded the frames.
func (v *Video) Trimmed() bool {
	return v.last > 0
}

func (v *Video) read(ctx context.Context) (*image.RGBA, bool, error) {
	if v.r == nil {
		r, err := v.decode(ctx)
		if err != nil {
			return nil, false, err
		}
		v.r = r
		v.buf = make([]byte, 4*v.info.Width*v.info.Height)
	}
	ok, err := v.r.ReadFrame(v.buf)
	if err != nil || !ok {
		return nil, false, err
	}
	v.pos++
	return &image.RGBA{
		Pix:    v.buf,
		Stride: 4 * v.info.Width,
		Rect:   image.Rect(0, 0, v.info.Width, v.info.Height),
	}, true, nil
}

// Next returns the next frame inside the window. The frame owns a copy of
// the pixels, the decoder buffer is reused.
func (v *Video) Next(ctx context.Context) (job.Frame, bool, error) {
	for {
		if err := ctx.Err(); err != nil {
			return job.Frame{}, false, err
		}
		if v.last > 0 && v.pos >= v.last {
			return job.Frame{}, false, nil
		}
		buf, ok, err := v.read(ctx)
		if err != nil {
			return job.Frame{}, false, err
		}
		if !ok {
			return job.Frame{}, false, nil
		}
		if v.pos < v.first {
			continue
		}
		return job.New(v.pos-v.first+1, buf), true, nil
	}
}

// FrameAt returns the frame shown at the given second.
func (v *Video) FrameAt(ctx context.Context, second float64) (job.Frame, error) {
	target := int(math.Floor(second*v.info.FPS)) + 1
	v.first, v.last = target, target
	f, ok, err := v.Next(ctx)
	if err != nil {
		return job.Frame{}, err
	}
	if !ok {
		return job.Frame{}, fmt.Errorf("no frame at %.2fs, video ends at frame %d", second, v.pos)
	}
	return f, nil
}

// Close stops the decoder if it is still running.
func (v *Video) Close() {
	if v.r != nil {
		_ = v.r.Close()
		v.r = nil
	}
}
