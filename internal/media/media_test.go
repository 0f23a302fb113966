package media

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1F47E/go-asciireel/internal/errs"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestDetect(t *testing.T) {
	testCases := []struct {
		path string
		kind Kind
		ok   bool
	}{
		{"clip.MP4", KindVideo, true},
		{"clip.mkv", KindVideo, true},
		{"photo.jpeg", KindImage, true},
		{"scan.TIFF", KindImage, true},
		{"notes.txt", 0, false},
		{"noext", 0, false},
	}
	for _, tc := range testCases {
		kind, err := Detect(tc.path)
		if !tc.ok {
			assert.Error(t, err, tc.path)
			continue
		}
		require.NoError(t, err, tc.path)
		assert.Equal(t, tc.kind, kind, tc.path)
	}
}

func TestOpenStill(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.png")
	img := image.NewNRGBA(image.Rect(0, 0, 8, 6))
	writePNG(t, path, img)

	src, err := Open(path)
	require.NoError(t, err)
	defer src.Close()
	assert.Equal(t, KindImage, src.Kind)
	require.NotNil(t, src.Still)
	assert.Nil(t, src.Video)
	assert.Equal(t, 8, src.Info.Width)
	assert.Equal(t, 6, src.Info.Height)
}

func TestOpenJPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.jpg")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, jpeg.Encode(f, image.NewRGBA(image.Rect(0, 0, 4, 4)), nil))
	require.NoError(t, f.Close())

	src, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 4, src.Still.Image.Rect.Dx())
}

func TestOpenErrorsAreConfiguration(t *testing.T) {
	dir := t.TempDir()

	_, err := Open(filepath.Join(dir, "missing.png"))
	assert.Equal(t, errs.KindConfiguration, errs.KindOf(err))

	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("hi"), 0o644))
	_, err = Open(txt)
	assert.Equal(t, errs.KindConfiguration, errs.KindOf(err))

	broken := filepath.Join(dir, "broken.png")
	require.NoError(t, os.WriteFile(broken, []byte("not a png"), 0o644))
	_, err = Open(broken)
	assert.Equal(t, errs.KindConfiguration, errs.KindOf(err))

	_, err = Open(dir)
	assert.Equal(t, errs.KindConfiguration, errs.KindOf(err))
}

func TestFilterDesaturates(t *testing.T) {
	f, err := NewFilter(0, DefaultWeights)
	require.NoError(t, err)

	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	src.SetRGBA(1, 0, color.RGBA{255, 255, 255, 255})
	out := f.Apply(src)

	require.Equal(t, src.Bounds(), out.Bounds())
	red := out.RGBAAt(0, 0)
	assert.Equal(t, red.R, red.G)
	assert.Equal(t, red.G, red.B)
	assert.InDelta(t, 76, int(red.R), 2)
	white := out.RGBAAt(1, 0)
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, white)
}

func TestFilterNormalisesWeights(t *testing.T) {
	a, err := NewFilter(0, [3]float64{1, 1, 1})
	require.NoError(t, err)
	b, err := NewFilter(0, [3]float64{0.5, 0.5, 0.5})
	require.NoError(t, err)

	src := image.NewRGBA(image.Rect(0, 0, 1, 1))
	src.SetRGBA(0, 0, color.RGBA{30, 60, 90, 255})
	assert.Equal(t, a.Apply(src).Pix, b.Apply(src).Pix)
	assert.InDelta(t, 60, int(a.Apply(src).Pix[0]), 1)
}

func TestFilterResizesToQuality(t *testing.T) {
	f, err := NewFilter(360, DefaultWeights)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 640, 360), f.Bounds(image.Rect(0, 0, 1920, 1080)))
	assert.Equal(t, image.Rect(0, 0, 480, 360), f.Bounds(image.Rect(0, 0, 640, 480)))
}

func TestFilterRejectsWeights(t *testing.T) {
	_, err := NewFilter(0, [3]float64{0, 0, 0})
	assert.Error(t, err)
	_, err = NewFilter(0, [3]float64{1.5, 0, 0})
	assert.Error(t, err)
}

func TestVideoOpenFailsOnMissingFile(t *testing.T) {
	_, err := OpenVideo(filepath.Join(t.TempDir(), "missing.mp4"))
	assert.Error(t, err)
}
