package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1F47E/go-asciireel/internal/config"
	"github.com/1F47E/go-asciireel/internal/errs"
	"github.com/1F47E/go-asciireel/internal/media"
	"github.com/1F47E/go-asciireel/internal/meta"
)

const (
	clipW = 640
	clipH = 360
)

// clipReader yields frames of a vertical gradient shifted per frame.
type clipReader struct {
	total int
	n     int
}

func (r *clipReader) ReadFrame(pix []byte) (bool, error) {
	if r.n >= r.total {
		return false, nil
	}
	r.n++
	for i := 0; i < len(pix); i += 4 {
		v := byte((i/4/clipW + r.n*16) % 256)
		pix[i], pix[i+1], pix[i+2], pix[i+3] = v, v, v, 255
	}
	return true, nil
}

func (r *clipReader) Close() error { return nil }

func fakeFFmpeg(t *testing.T, script string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ffmpeg"), []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func videoCore(frames int) *Core {
	c := NewCore(context.Background(), nil)
	info := meta.Info{Width: clipW, Height: clipH, FPS: 4, Duration: float64(frames) / 4, Frames: frames}
	c.open = func(path string) (*media.Source, error) {
		v := media.NewVideo(info, func(ctx context.Context) (media.FrameReader, error) {
			return &clipReader{total: frames}, nil
		})
		return &media.Source{Kind: media.KindVideo, Path: path, Info: info, Video: v}, nil
	}
	return c
}

func videoConfig() config.Config {
	cfg := testConfig()
	cfg.FontSize = 2 // canvas keeps the source size
	cfg.Mute = true
	return cfg
}

func TestGenerateVideo(t *testing.T) {
	tmp := isolate(t)
	fakeFFmpeg(t, `for a; do out="$a"; done
exec cat > "$out"`)
	dest := t.TempDir()

	out, err := videoCore(4).Generate(Request{Source: "clip.mp4", Destination: dest, Config: videoConfig()})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "ascii.mp4"), out)

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Equal(t, int64(4*clipW*clipH*4), info.Size())

	assert.Empty(t, leftovers(t, tmp))
	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ascii.mp4", entries[0].Name())
}

func TestGenerateVideoSegment(t *testing.T) {
	isolate(t)
	fakeFFmpeg(t, `for a; do out="$a"; done
exec cat > "$out"`)
	dest := t.TempDir()
	start, end := 0.25, 0.75

	out, err := videoCore(8).Generate(Request{
		Source: "clip.mp4", Destination: dest, Config: videoConfig(),
		Start: &start, End: &end,
	})
	require.NoError(t, err)

	// frames 2 and 3 of the source
	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Equal(t, int64(2*clipW*clipH*4), info.Size())
}

func TestGenerateVideoEncoderFailure(t *testing.T) {
	tmp := isolate(t)
	fakeFFmpeg(t, "cat > /dev/null\necho 'muxer failed' >&2\nexit 1")
	dest := t.TempDir()

	_, err := videoCore(4).Generate(Request{Source: "clip.mp4", Destination: dest, Config: videoConfig()})
	require.Error(t, err)
	assert.Equal(t, errs.KindProcessing, errs.KindOf(err))
	assert.Contains(t, err.Error(), "muxer failed")

	assert.Empty(t, leftovers(t, tmp))
	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	assert.Empty(t, entries, "no artifact, staged file or lock may remain")
}

func TestGenerateVideoFrame(t *testing.T) {
	isolate(t)
	dest := t.TempDir()
	second := 0.5

	out, err := videoCore(4).Generate(Request{Source: "clip.mp4", Destination: dest, Config: videoConfig(), Frame: &second})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "ascii.png"), out)
}

func TestFinish(t *testing.T) {
	dir := t.TempDir()
	staged := filepath.Join(dir, ".ascii.png.staged")
	output := filepath.Join(dir, "ascii.png")

	require.NoError(t, os.WriteFile(staged, []byte("png"), 0o644))
	require.NoError(t, finish(staged, output, nil))
	_, err := os.Stat(output)
	assert.NoError(t, err)
	_, err = os.Stat(staged)
	assert.True(t, os.IsNotExist(err))

	// a failure after staging, such as a workspace that cannot be removed, drops the artifact
	require.NoError(t, os.Remove(output))
	require.NoError(t, os.WriteFile(staged, []byte("png"), 0o644))
	cause := errs.Resource("remove workspace", os.ErrPermission)
	err = finish(staged, output, cause)
	assert.ErrorIs(t, err, os.ErrPermission)
	_, err = os.Stat(staged)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(output)
	assert.True(t, os.IsNotExist(err))
}
