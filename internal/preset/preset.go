// Package preset resolves chunk and glyph sizes from the source aspect ratio.
package preset

import (
	"fmt"
)

type Name string

const (
	None  Name = ""
	P720  Name = "720"
	P1080 Name = "1080"
)

// SourceQuality is the source height, in lines, the preset table is built for.
const SourceQuality = 360

func Parse(s string) (Name, error) {
	switch Name(s) {
	case None, P720, P1080:
		return Name(s), nil
	case "none":
		return None, nil
	}
	return None, fmt.Errorf("preset can only be 720 or 1080, got %q", s)
}

type Ratio struct {
	X, Y int
}

func (r Ratio) String() string {
	return fmt.Sprintf("%d:%d", r.X, r.Y)
}

var (
	Wide     = Ratio{16, 9}
	Standard = Ratio{4, 3}
)

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// AspectRatio reduces width:height by their greatest common divisor.
func AspectRatio(width, height int) Ratio {
	r := gcd(width, height)
	if r == 0 {
		return Ratio{}
	}
	return Ratio{width / r, height / r}
}

// Settings are the knobs a preset may override.
type Settings struct {
	ChunkW    int
	ChunkH    int
	GlyphSize int
	FontPath  string
}

type key struct {
	name  Name
	ratio Ratio
}

var table = map[key]Settings{
	{P720, Wide}:      {ChunkW: 2, ChunkH: 2, GlyphSize: 4},
	{P1080, Wide}:     {ChunkW: 2, ChunkH: 2, GlyphSize: 6},
	{P720, Standard}:  {ChunkW: 3, ChunkH: 3, GlyphSize: 6},
	{P1080, Standard}: {ChunkW: 3, ChunkH: 3, GlyphSize: 9},
}

// Row is one entry of the preset table, in display order.
type Row struct {
	Name  Name
	Ratio Ratio
	Settings
}

func Table() []Row {
	return []Row{
		{P720, Wide, table[key{P720, Wide}]},
		{P1080, Wide, table[key{P1080, Wide}]},
		{P720, Standard, table[key{P720, Standard}]},
		{P1080, Standard, table[key{P1080, Standard}]},
	}
}

// Resolve applies the preset for the source dimensions to current.
// Any preset resets the font to defaultFont; ratios other than 16:9 and 4:3
// keep the caller's chunk and glyph size. The bool reports whether the
// table matched.
func Resolve(name Name, width, height int, current Settings, defaultFont string) (Settings, bool) {
	if name == None {
		return current, false
	}
	out := current
	out.FontPath = defaultFont
	s, ok := table[key{name, AspectRatio(width, height)}]
	if !ok {
		return out, false
	}
	s.FontPath = defaultFont
	return s, true
}
