package media

import (
	"fmt"
	"image"

	"github.com/disintegration/gift"
)

// DefaultWeights are the ITU-R 601 luma weights.
var DefaultWeights = [3]float64{0.299, 0.587, 0.114}

// Filter scales a frame to the configured quality and desaturates it with
// normalised RGB weights. Every channel of the output holds the same grey.
type Filter struct {
	g *gift.GIFT
}

func NewFilter(quality int, weights [3]float64) (*Filter, error) {
	sum := weights[0] + weights[1] + weights[2]
	for _, w := range weights {
		if w < 0 || w > 1 {
			return nil, fmt.Errorf("desaturation weights must be within [0, 1], got %v", weights)
		}
	}
	if sum <= 0 {
		return nil, fmt.Errorf("desaturation weights must not all be zero")
	}
	wr, wg, wb := float32(weights[0]/sum), float32(weights[1]/sum), float32(weights[2]/sum)

	g := gift.New()
	if quality > 0 {
		g.Add(gift.Resize(0, quality, gift.LinearResampling))
	}
	g.Add(gift.ColorFunc(func(r0, g0, b0, a0 float32) (r, g, b, a float32) {
		y := wr*r0 + wg*g0 + wb*b0
		if y > 1 {
			y = 1
		}
		return y, y, y, 1
	}))
	return &Filter{g: g}, nil
}

// Bounds returns the size a src-sized frame has after filtering.
func (f *Filter) Bounds(src image.Rectangle) image.Rectangle {
	return f.g.Bounds(src)
}

func (f *Filter) Apply(src image.Image) *image.RGBA {
	dst := image.NewRGBA(f.g.Bounds(src.Bounds()))
	f.g.Draw(dst, src)
	return dst
}
