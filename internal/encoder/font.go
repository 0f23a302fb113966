package encoder

import (
	"fmt"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/gomono"
)

// LoadFont parses the TrueType font at path. An empty path loads the embedded Go Mono.
func LoadFont(path string) (*truetype.Font, error) {
	data := gomono.TTF
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read font %s: %w", path, err)
		}
		data = b
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %q: %w", path, err)
	}
	return f, nil
}
