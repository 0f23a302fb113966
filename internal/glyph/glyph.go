// Package glyph maps chunk luminance to a glyph of a dark-to-light palette.
package glyph

import (
	"fmt"
	"image"
)

// allowed palette sizes, each divides the 255*3 channel sum evenly except 2
var allowedLengths = map[int]bool{2: true, 3: true, 5: true, 9: true}

// Set is an immutable dark-to-light glyph palette.
type Set struct {
	glyphs []rune
}

func NewSet(glyphs string) (Set, error) {
	runes := []rune(glyphs)
	if !allowedLengths[len(runes)] {
		return Set{}, fmt.Errorf("glyph set must have 2, 3, 5 or 9 symbols, got %d", len(runes))
	}
	return Set{glyphs: runes}, nil
}

func (s Set) Len() int {
	return len(s.glyphs)
}

func (s Set) At(i int) rune {
	return s.glyphs[i]
}

func (s Set) String() string {
	return string(s.glyphs)
}

// Quantizer holds the bucket width derived from the chunk area and palette size.
type Quantizer struct {
	set           Set
	chunkW        int
	chunkH        int
	maxLuminosity int
}

func NewQuantizer(set Set, chunkW, chunkH int) (*Quantizer, error) {
	if set.Len() == 0 {
		return nil, fmt.Errorf("empty glyph set")
	}
	if chunkW <= 0 || chunkH <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %dx%d", chunkW, chunkH)
	}
	return &Quantizer{
		set:           set,
		chunkW:        chunkW,
		chunkH:        chunkH,
		maxLuminosity: MaxLuminosity(chunkW, chunkH, set.Len()),
	}, nil
}

// MaxLuminosity is the width of one bucket, truncated to an integer.
func MaxLuminosity(chunkW, chunkH, levels int) int {
	return chunkW * chunkH * 255 * 3 / levels
}

func (q *Quantizer) MaxLuminosity() int {
	return q.maxLuminosity
}

func (q *Quantizer) Set() Set {
	return q.set
}

// Index returns the first bucket whose closed interval holds sum.
// Shared bounds resolve to the darker bucket; a sum past the last bound
// (possible after truncation) falls back to the lightest glyph.
func (q *Quantizer) Index(sum int) int {
	for i := 0; i < q.set.Len(); i++ {
		if q.maxLuminosity*i <= sum && sum <= q.maxLuminosity*(i+1) {
			return i
		}
	}
	return q.set.Len() - 1
}

func (q *Quantizer) Glyph(sum int) rune {
	return q.set.At(q.Index(sum))
}

// ChunkSum adds R+G+B of every pixel in the chunk at grid position (row, col).
func (q *Quantizer) ChunkSum(img *image.RGBA, row, col int) int {
	x0 := img.Rect.Min.X + col*q.chunkW
	y0 := img.Rect.Min.Y + row*q.chunkH
	sum := 0
	for y := y0; y < y0+q.chunkH; y++ {
		off := img.PixOffset(x0, y)
		for x := 0; x < q.chunkW; x++ {
			p := img.Pix[off : off+3 : off+3]
			sum += int(p[0]) + int(p[1]) + int(p[2])
			off += 4
		}
	}
	return sum
}

// Line builds the glyph row for chunk row `row` of img.
func (q *Quantizer) Line(img *image.RGBA, row int, buf []rune) []rune {
	cols := img.Rect.Dx() / q.chunkW
	buf = buf[:0]
	for col := 0; col < cols; col++ {
		buf = append(buf, q.Glyph(q.ChunkSum(img, row, col)))
	}
	return buf
}
