package storage

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/1F47E/go-asciireel/internal/errs"
	"github.com/1F47E/go-asciireel/internal/logger"
	"github.com/1F47E/go-asciireel/internal/meta"
)

// Workspace is a temporary directory owned by a single run. It only ever
// removes the files it handed out itself.
type Workspace struct {
	dir   string
	mu    sync.Mutex
	files map[string]struct{}
}

func NewWorkspace(prefix string) (*Workspace, error) {
	dir, err := os.MkdirTemp("", prefix+"-*")
	if err != nil {
		return nil, errs.Resource("create workspace", err)
	}
	logger.Scope("workspace").Debugf("Workspace created: %s", dir)
	return &Workspace{dir: dir, files: make(map[string]struct{})}, nil
}

// WithWorkspace runs fn inside a fresh workspace and removes it afterwards,
// whatever fn returned.
func WithWorkspace(prefix string, fn func(ws *Workspace) error) (err error) {
	ws, err := NewWorkspace(prefix)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := ws.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()
	return fn(ws)
}

func (w *Workspace) Dir() string {
	return w.dir
}

// Path registers name as owned by the workspace and returns its full path.
func (w *Workspace) Path(name string) string {
	p := filepath.Join(w.dir, filepath.Base(name))
	w.mu.Lock()
	w.files[p] = struct{}{}
	w.mu.Unlock()
	return p
}

// SaveFrame writes img as a PNG under name. Frames are written by concurrent
// workers, every call must use a distinct name.
func (w *Workspace) SaveFrame(name string, img image.Image, level png.CompressionLevel) error {
	p := w.Path(name)
	f, err := os.OpenFile(p, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create frame %s: %w", name, err)
	}
	enc := png.Encoder{CompressionLevel: level}
	if err := enc.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode frame %s: %w", name, err)
	}
	return f.Close()
}

// Frames lists the rendered frames sorted by name, which is sequence order.
func (w *Workspace) Frames() ([]string, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return nil, errs.Resource("scan workspace", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !meta.IsFrame(e.Name()) {
			continue
		}
		out = append(out, filepath.Join(w.dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

// Close removes every tracked file and then the directory itself.
func (w *Workspace) Close() error {
	log := logger.Scope("workspace")
	w.mu.Lock()
	defer w.mu.Unlock()

	var errList []error
	for p := range w.files {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			errList = append(errList, err)
		}
	}
	w.files = make(map[string]struct{})
	if err := os.Remove(w.dir); err != nil && !errors.Is(err, os.ErrNotExist) {
		errList = append(errList, err)
	}
	if len(errList) > 0 {
		return errs.Resource("remove workspace", errors.Join(errList...))
	}
	log.Debugf("Workspace removed: %s", w.dir)
	return nil
}

// CompressionLevel maps a 0-9 zlib style level onto the png encoder presets.
func CompressionLevel(level int) png.CompressionLevel {
	switch {
	case level <= 0:
		return png.NoCompression
	case level <= 3:
		return png.BestSpeed
	case level <= 6:
		return png.DefaultCompression
	default:
		return png.BestCompression
	}
}
