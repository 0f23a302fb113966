package config

import (
	"fmt"
	"strconv"
	"strings"
)

// fields splits "2x2", "2,2" or "2 2" style values.
func fields(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == 'x' || r == ',' || r == ' '
	})
}

// ParseChunk reads a chunk size such as "2x2".
func ParseChunk(s string) ([2]int, error) {
	var out [2]int
	parts := fields(s)
	if len(parts) != 2 {
		return out, fmt.Errorf("chunk must look like WxH, got %q", s)
	}
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return out, fmt.Errorf("chunk %q: %w", s, err)
		}
		out[i] = v
	}
	return out, nil
}

// ParseColor reads an "r,g,b" triple.
func ParseColor(s string) ([3]int, error) {
	var out [3]int
	parts := fields(s)
	if len(parts) != 3 {
		return out, fmt.Errorf("color must look like R,G,B, got %q", s)
	}
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return out, fmt.Errorf("color %q: %w", s, err)
		}
		out[i] = v
	}
	return out, nil
}

// ParseWeights reads three comma separated desaturation weights.
func ParseWeights(s string) ([3]float64, error) {
	var out [3]float64
	parts := fields(s)
	if len(parts) != 3 {
		return out, fmt.Errorf("weights must look like R,G,B, got %q", s)
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return out, fmt.Errorf("weights %q: %w", s, err)
		}
		out[i] = v
	}
	return out, nil
}
