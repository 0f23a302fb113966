package encoder

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/1F47E/go-asciireel/internal/errs"
	"github.com/1F47E/go-asciireel/internal/glyph"
	"github.com/1F47E/go-asciireel/internal/logger"
)

type Options struct {
	ChunkW    int
	ChunkH    int
	GlyphSize int
	Glyphs    glyph.Set
	Color     color.RGBA
	Font      *truetype.Font
}

// FrameEncoder draws the glyph grid of one frame at a time.
// It keeps a font face and a line buffer, so every worker needs its own.
type FrameEncoder struct {
	opts   Options
	q      *glyph.Quantizer
	face   font.Face
	ascent fixed.Int26_6
	ink    *image.Uniform
	line   []rune
}

func NewFrameEncoder(opts Options) (*FrameEncoder, error) {
	if opts.GlyphSize <= 0 {
		return nil, errs.Configf("encoder", "glyph size must be positive, got %d", opts.GlyphSize)
	}
	if opts.Font == nil {
		return nil, errs.Configf("encoder", "font is not loaded")
	}
	q, err := glyph.NewQuantizer(opts.Glyphs, opts.ChunkW, opts.ChunkH)
	if err != nil {
		return nil, errs.Config("encoder", err)
	}
	face := truetype.NewFace(opts.Font, &truetype.Options{
		Size:    float64(opts.GlyphSize),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	return &FrameEncoder{
		opts:   opts,
		q:      q,
		face:   face,
		ascent: face.Metrics().Ascent,
		ink:    image.NewUniform(opts.Color),
	}, nil
}

// CheckDimensions rejects buffers that do not tile into whole chunks.
func CheckDimensions(width, height, chunkW, chunkH int) error {
	if chunkW <= 0 || chunkH <= 0 {
		return errs.Configf("dimensions", "chunk size must be positive, got %dx%d", chunkW, chunkH)
	}
	if width%chunkW != 0 {
		return errs.Dimensionf("dimensions", "source width (%dpx) must be divisible by chunk width (%dpx)", width, chunkW)
	}
	if height%chunkH != 0 {
		return errs.Dimensionf("dimensions", "source height (%dpx) must be divisible by chunk height (%dpx)", height, chunkH)
	}
	return nil
}

// CanvasSize returns the rendered size for a width x height source.
func CanvasSize(width, height, chunkW, chunkH, glyphSize int) (int, int) {
	return width * glyphSize / chunkW, height * glyphSize / chunkH
}

// Lines returns the glyph rows of src, top to bottom.
func (f *FrameEncoder) Lines(src *image.RGBA) ([]string, error) {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	if err := CheckDimensions(w, h, f.opts.ChunkW, f.opts.ChunkH); err != nil {
		return nil, err
	}
	rows := h / f.opts.ChunkH
	lines := make([]string, rows)
	for row := 0; row < rows; row++ {
		f.line = f.q.Line(src, row, f.line)
		lines[row] = string(f.line)
	}
	return lines, nil
}

func (f *FrameEncoder) EncodeFrame(src *image.RGBA) (*image.RGBA, error) {
	log := logger.Scope("frame encoder")

	lines, err := f.Lines(src)
	if err != nil {
		return nil, err
	}
	w, h := CanvasSize(src.Rect.Dx(), src.Rect.Dy(), f.opts.ChunkW, f.opts.ChunkH, f.opts.GlyphSize)
	if w <= 0 || h <= 0 {
		return nil, errs.Dimensionf("encode", "empty canvas %dx%d", w, h)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), image.Black, image.Point{}, draw.Src)

	d := font.Drawer{
		Dst:  canvas,
		Src:  f.ink,
		Face: f.face,
	}
	for row, line := range lines {
		// lines are laid out on the glyph grid, the font ascent moves the baseline into the cell
		d.Dot = fixed.Point26_6{X: 0, Y: fixed.I(row*f.opts.GlyphSize) + f.ascent}
		d.DrawString(line)
	}
	log.Debugf("Encoded %dx%d frame into %d lines", src.Rect.Dx(), src.Rect.Dy(), len(lines))
	return canvas, nil
}

func (f *FrameEncoder) String() string {
	return fmt.Sprintf("chunk=%dx%d glyph=%d glyphs=%q", f.opts.ChunkW, f.opts.ChunkH, f.opts.GlyphSize, f.opts.Glyphs.String())
}
