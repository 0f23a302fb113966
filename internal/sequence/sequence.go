// Package sequence turns the rendered frame files back into a video stream.
package sequence

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"

	"github.com/1F47E/go-asciireel/internal/errs"
	"github.com/1F47E/go-asciireel/internal/logger"
)

// Sink receives tightly packed RGBA frames in sequence order.
type Sink interface {
	WriteFrame(pix []byte) error
	Close() error
}

// SinkFactory opens a sink once the final frame size is known.
type SinkFactory func(width, height int) (Sink, error)

// PaddedWidth returns the 16:9 width for a width x height frame and the
// margin added on each side. Frames already 16:9 or wider are unchanged.
func PaddedWidth(width, height int) (int, int) {
	target := height * 16 / 9
	if width >= target {
		return width, 0
	}
	margin := (target - width) / 2
	return width + 2*margin, margin
}

// Pad centres img on a transparent 16:9 canvas. Applying it twice is a no-op.
func Pad(img image.Image) *image.RGBA {
	b := img.Bounds()
	w, margin := PaddedWidth(b.Dx(), b.Dy())
	out := image.NewRGBA(image.Rect(0, 0, w, b.Dy()))
	draw.Draw(out, image.Rect(margin, 0, margin+b.Dx(), b.Dy()), img, b.Min, draw.Src)
	return out
}

type Assembler struct {
	ForceAspectRatio bool
}

// Assemble streams the frames, already sorted in sequence order, into a sink.
// All frames must share the size of the first one.
func (a Assembler) Assemble(ctx context.Context, frames []string, open SinkFactory) (err error) {
	log := logger.Scope("assembler")
	if len(frames) == 0 {
		return errs.Processing("assemble", fmt.Errorf("no rendered frames"))
	}

	first, err := readFrame(frames[0])
	if err != nil {
		return errs.Processing("assemble", err)
	}
	fw, fh := first.Bounds().Dx(), first.Bounds().Dy()
	width, margin := fw, 0
	if a.ForceAspectRatio {
		width, margin = PaddedWidth(fw, fh)
	}
	log.Debugf("Assembling %d frames %dx%d -> %dx%d", len(frames), fw, fh, width, fh)

	sink, err := open(width, fh)
	if err != nil {
		return errs.Processing("assemble", err)
	}
	defer func() {
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = errs.Processing("assemble", cerr)
		}
	}()

	// margins are never drawn over, so one canvas serves every frame
	canvas := image.NewRGBA(image.Rect(0, 0, width, fh))
	inner := image.Rect(margin, 0, margin+fw, fh)

	for i, path := range frames {
		if err := ctx.Err(); err != nil {
			return errs.Processing("assemble", err)
		}
		img := first
		if i > 0 {
			img, err = readFrame(path)
			if err != nil {
				return errs.Processing("assemble", err)
			}
		}
		if img.Bounds().Dx() != fw || img.Bounds().Dy() != fh {
			return errs.Processing("assemble", fmt.Errorf("frame %s is %dx%d, want %dx%d", path, img.Bounds().Dx(), img.Bounds().Dy(), fw, fh))
		}
		draw.Draw(canvas, inner, img, img.Bounds().Min, draw.Src)
		if err := sink.WriteFrame(canvas.Pix); err != nil {
			return errs.Processing("assemble", fmt.Errorf("write frame %d: %w", i+1, err))
		}
	}
	return nil
}

func readFrame(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
