package preset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAspectRatio(t *testing.T) {
	testCases := []struct {
		w, h int
		want Ratio
	}{
		{640, 360, Wide},
		{1920, 1080, Wide},
		{480, 360, Standard},
		{1024, 768, Standard},
		{100, 100, Ratio{1, 1}},
		{1280, 546, Ratio{640, 273}},
		{0, 0, Ratio{}},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, AspectRatio(tc.w, tc.h), "%dx%d", tc.w, tc.h)
	}
}

func TestResolve720Wide(t *testing.T) {
	current := Settings{ChunkW: 7, ChunkH: 5, GlyphSize: 11, FontPath: "custom.ttf"}
	got, ok := Resolve(P720, 640, 360, current, "default.ttf")
	require.True(t, ok)
	assert.Equal(t, Settings{ChunkW: 2, ChunkH: 2, GlyphSize: 4, FontPath: "default.ttf"}, got)
}

func TestResolveTable(t *testing.T) {
	testCases := []struct {
		name  Name
		w, h  int
		chunk int
		glyph int
	}{
		{P1080, 640, 360, 2, 6},
		{P720, 480, 360, 3, 6},
		{P1080, 480, 360, 3, 9},
	}
	for _, tc := range testCases {
		got, ok := Resolve(tc.name, tc.w, tc.h, Settings{ChunkW: 1, ChunkH: 1, GlyphSize: 1}, "")
		require.True(t, ok)
		assert.Equal(t, tc.chunk, got.ChunkW)
		assert.Equal(t, tc.chunk, got.ChunkH)
		assert.Equal(t, tc.glyph, got.GlyphSize)
	}
}

func TestResolveUnknownRatioKeepsSettings(t *testing.T) {
	current := Settings{ChunkW: 4, ChunkH: 3, GlyphSize: 8, FontPath: "custom.ttf"}
	got, ok := Resolve(P1080, 360, 360, current, "default.ttf")
	assert.False(t, ok)
	assert.Equal(t, 4, got.ChunkW)
	assert.Equal(t, 3, got.ChunkH)
	assert.Equal(t, 8, got.GlyphSize)
	assert.Equal(t, "default.ttf", got.FontPath)
}

func TestResolveWithoutPreset(t *testing.T) {
	current := Settings{ChunkW: 4, ChunkH: 3, GlyphSize: 8, FontPath: "custom.ttf"}
	got, ok := Resolve(None, 640, 360, current, "default.ttf")
	assert.False(t, ok)
	assert.Equal(t, current, got)
}

func TestParse(t *testing.T) {
	for _, s := range []string{"", "none", "720", "1080"} {
		_, err := Parse(s)
		assert.NoError(t, err, s)
	}
	_, err := Parse("480")
	assert.Error(t, err)
}
