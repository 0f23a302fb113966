package job

import (
	"fmt"
	"image"
)

// Frame is one decoded source frame waiting to be rasterized.
type Frame struct {
	Index int // 1-based position in the source sequence
	Image *image.RGBA
}

// New copies buf into a frame so the decoder can reuse its buffer.
func New(index int, buf *image.RGBA) Frame {
	cp := image.NewRGBA(buf.Rect)
	_ = copy(cp.Pix, buf.Pix)
	return Frame{Index: index, Image: cp}
}

func (f Frame) Print() string {
	return fmt.Sprintf("Frame #%d %dx%d", f.Index, f.Image.Rect.Dx(), f.Image.Rect.Dy())
}
