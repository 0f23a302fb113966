package core

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1F47E/go-asciireel/internal/config"
	"github.com/1F47E/go-asciireel/internal/errs"
	"github.com/1F47E/go-asciireel/internal/meta"
	"github.com/1F47E/go-asciireel/internal/storage"
)

func writeImage(t *testing.T, dir string, w, h int, c color.RGBA) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	path := filepath.Join(dir, "source.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

// isolate points the temp dir at an empty folder so leftovers are visible.
func isolate(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)
	return tmp
}

func leftovers(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "asciireel-") {
			names = append(names, e.Name())
		}
	}
	return names
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Threads = 2
	return cfg
}

func TestGenerateStill(t *testing.T) {
	tmp := isolate(t)
	srcDir := t.TempDir()
	dest := filepath.Join(t.TempDir(), "out")
	source := writeImage(t, srcDir, 4, 4, color.RGBA{0, 0, 0, 255})

	c := NewCore(context.Background(), nil)
	out, err := c.Generate(Request{Source: source, Destination: dest, Config: testConfig()})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "ascii.png"), out)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	// 4x4 source, 2x2 chunks, glyph size 6
	assert.Equal(t, image.Rect(0, 0, 12, 12), img.Bounds())

	assert.Empty(t, leftovers(t, tmp))
	_, err = os.Stat(filepath.Join(dest, ".ascii.png.lock"))
	assert.True(t, os.IsNotExist(err))
}

func TestGenerateStillCustomName(t *testing.T) {
	isolate(t)
	dest := t.TempDir()
	source := writeImage(t, t.TempDir(), 6, 6, color.RGBA{200, 200, 200, 255})
	cfg := testConfig()
	cfg.Chunk = [2]int{3, 3}

	out, err := NewCore(context.Background(), nil).Generate(Request{
		Source: source, Destination: dest, Name: "poster", Config: cfg,
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "poster.png"), out)
}

func TestGenerateDimensionFailureCleansUp(t *testing.T) {
	tmp := isolate(t)
	dest := t.TempDir()
	source := writeImage(t, t.TempDir(), 5, 5, color.RGBA{255, 255, 255, 255})

	_, err := NewCore(context.Background(), nil).Generate(Request{Source: source, Destination: dest, Config: testConfig()})
	require.Error(t, err)
	assert.Equal(t, errs.KindDimension, errs.KindOf(err))

	assert.Empty(t, leftovers(t, tmp))
	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerateRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Glyphs = "abcd"
	_, err := NewCore(context.Background(), nil).Generate(Request{Source: "x.png", Destination: t.TempDir(), Config: cfg})
	require.Error(t, err)
	assert.Equal(t, errs.KindConfiguration, errs.KindOf(err))
}

func TestGenerateMissingSource(t *testing.T) {
	_, err := NewCore(context.Background(), nil).Generate(Request{
		Source:      filepath.Join(t.TempDir(), "missing.png"),
		Destination: t.TempDir(),
		Config:      testConfig(),
	})
	require.Error(t, err)
	assert.Equal(t, errs.KindConfiguration, errs.KindOf(err))
}

func TestGenerateOutputLocked(t *testing.T) {
	isolate(t)
	dest := t.TempDir()
	source := writeImage(t, t.TempDir(), 4, 4, color.RGBA{0, 0, 0, 255})

	lock, err := storage.LockOutput(filepath.Join(dest, "ascii.png"))
	require.NoError(t, err)
	defer lock.Unlock()

	_, err = NewCore(context.Background(), nil).Generate(Request{Source: source, Destination: dest, Config: testConfig()})
	require.Error(t, err)
	assert.Equal(t, errs.KindResource, errs.KindOf(err))
}

func TestGenerateCancelled(t *testing.T) {
	tmp := isolate(t)
	dest := t.TempDir()
	source := writeImage(t, t.TempDir(), 4, 4, color.RGBA{0, 0, 0, 255})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewCore(ctx, nil).Generate(Request{Source: source, Destination: dest, Config: testConfig()})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, leftovers(t, tmp))
	_, err = os.Stat(filepath.Join(dest, "ascii.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestRequestName(t *testing.T) {
	name, err := Request{}.name()
	require.NoError(t, err)
	assert.Equal(t, "ascii", name)

	name, err = Request{Name: "clip.mp4"}.name()
	require.NoError(t, err)
	assert.Equal(t, "clip", name)

	_, err = Request{Name: "../clip"}.name()
	require.Error(t, err)
}

func ptr(v float64) *float64 { return &v }

func TestRequestSegment(t *testing.T) {
	info := meta.Info{FPS: 25, Duration: 10}
	cases := []struct {
		name       string
		start, end *float64
		wantStart  float64
		wantEnd    float64
		wantErr    bool
	}{
		{"defaults", nil, nil, 0, 10, false},
		{"start only", ptr(2), nil, 2, 10, false},
		{"end only", nil, ptr(4), 0, 4, false},
		{"window", ptr(1.5), ptr(3), 1.5, 3, false},
		{"start past end", ptr(5), ptr(3), 0, 0, true},
		{"equal", ptr(3), ptr(3), 0, 0, true},
		{"negative", ptr(-1), nil, 0, 0, true},
		{"end past duration", nil, ptr(11), 0, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, end, err := Request{Start: tc.start, End: tc.end}.segment(info)
			if tc.wantErr {
				require.Error(t, err)
				assert.Equal(t, errs.KindConfiguration, errs.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantStart, start)
			assert.Equal(t, tc.wantEnd, end)
		})
	}
}

func TestRequestFrameAt(t *testing.T) {
	info := meta.Info{FPS: 25, Duration: 10}
	s, err := Request{Frame: ptr(2)}.frameAt(info)
	require.NoError(t, err)
	assert.Equal(t, 2.0, s)

	_, err = Request{Frame: ptr(10)}.frameAt(info)
	require.Error(t, err)
	_, err = Request{Frame: ptr(-0.5)}.frameAt(info)
	require.Error(t, err)
}
