package workers

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"sync"
	"sync/atomic"
	"time"

	"github.com/1F47E/go-asciireel/internal/errs"
	"github.com/1F47E/go-asciireel/internal/job"
	"github.com/1F47E/go-asciireel/internal/logger"
	"github.com/1F47E/go-asciireel/internal/meta"
)

const MaxWorkers = 32

var errFrameTimeout = errors.New("frame render timed out")

// Renderer turns one source frame into its glyph canvas. A renderer is used
// by a single worker only.
type Renderer interface {
	Render(src *image.RGBA) (*image.RGBA, error)
}

type RendererFactory func() (Renderer, error)

// Source yields frames in increasing index order. ok is false once exhausted.
type Source interface {
	Next(ctx context.Context) (f job.Frame, ok bool, err error)
}

// FrameStore persists rendered frames under distinct names.
type FrameStore interface {
	SaveFrame(name string, img image.Image, level png.CompressionLevel) error
}

// Event is sent once per finished frame, in completion order.
type Event struct {
	Index     int
	Completed int64
}

type Config struct {
	Workers     int
	NewRenderer RendererFactory
	Store       FrameStore
	Namer       meta.Namer
	Compression png.CompressionLevel
	// FrameTimeout bounds a single render, zero disables it.
	FrameTimeout time.Duration
	// Events is optional and must be drained by the caller while Run is active.
	Events chan<- Event
}

// Pool fans frames out to a fixed set of workers.
type Pool struct {
	cfg       Config
	completed atomic.Int64
}

func NewPool(cfg Config) (*Pool, error) {
	if cfg.Workers < 1 || cfg.Workers > MaxWorkers {
		return nil, errs.Configf("workers", "worker count must be between 1 and %d, got %d", MaxWorkers, cfg.Workers)
	}
	if cfg.NewRenderer == nil || cfg.Store == nil {
		return nil, errs.Configf("workers", "renderer and store are required")
	}
	return &Pool{cfg: cfg}, nil
}

// Completed returns the number of frames written so far.
func (p *Pool) Completed() int64 {
	return p.completed.Load()
}

// Run submits every frame of src and blocks until all submitted frames are
// written or the batch failed. The first failure cancels the rest.
func (p *Pool) Run(ctx context.Context, src Source) (int, error) {
	log := logger.Scope("workers")
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	jobs := make(chan job.Frame, p.cfg.Workers)
	var wg sync.WaitGroup
	for i := 1; i <= p.cfg.Workers; i++ {
		r, err := p.cfg.NewRenderer()
		if err != nil {
			cancel(fmt.Errorf("create renderer: %w", err))
			break
		}
		wg.Add(1)
		go func(id int, r Renderer) {
			defer wg.Done()
			p.work(ctx, cancel, id, r, jobs)
		}(i, r)
	}
	log.Debugf("Started %d workers", p.cfg.Workers)

	submitted := 0
submit:
	for ctx.Err() == nil {
		f, ok, err := src.Next(ctx)
		if err != nil {
			cancel(fmt.Errorf("read frame %d: %w", submitted+1, err))
			break
		}
		if !ok {
			break
		}
		// blocks until a worker frees a slot
		select {
		case jobs <- f:
			submitted++
			log.Debugf("Sent frame %d", f.Index)
		case <-ctx.Done():
			break submit
		}
	}

	close(jobs)
	wg.Wait()
	log.Debugf("All workers done, %d/%d frames written", p.completed.Load(), submitted)

	if cause := context.Cause(ctx); cause != nil {
		return submitted, errs.Processing("dispatch", cause)
	}
	return submitted, nil
}

func (p *Pool) work(ctx context.Context, cancel context.CancelCauseFunc, id int, r Renderer, jobs <-chan job.Frame) {
	log := logger.Scope("workers").WithField("worker", id)
	log.Debug("started")
	defer log.Debug("finished")

	for {
		select {
		case <-ctx.Done():
			return
		case f, ok := <-jobs:
			if !ok {
				return
			}
			now := time.Now()
			if err := p.process(r, f); err != nil {
				cancel(err)
				return
			}
			log.Debugf("%s done in %s", f.Print(), time.Since(now))
			n := p.completed.Add(1)
			p.emit(ctx, Event{Index: f.Index, Completed: n})
		}
	}
}

func (p *Pool) process(r Renderer, f job.Frame) error {
	name, err := p.cfg.Namer.Name(f.Index)
	if err != nil {
		return err
	}
	img, err := p.render(r, f)
	if err != nil {
		return fmt.Errorf("render frame %d: %w", f.Index, err)
	}
	if err := p.cfg.Store.SaveFrame(name, img, p.cfg.Compression); err != nil {
		return fmt.Errorf("save frame %d: %w", f.Index, err)
	}
	return nil
}

// render applies FrameTimeout. A timed out render keeps running in the
// background but its result is dropped and never reaches the store.
func (p *Pool) render(r Renderer, f job.Frame) (*image.RGBA, error) {
	if p.cfg.FrameTimeout <= 0 {
		return r.Render(f.Image)
	}
	type result struct {
		img *image.RGBA
		err error
	}
	done := make(chan result, 1)
	go func() {
		img, err := r.Render(f.Image)
		done <- result{img, err}
	}()
	timer := time.NewTimer(p.cfg.FrameTimeout)
	defer timer.Stop()
	select {
	case res := <-done:
		return res.img, res.err
	case <-timer.C:
		return nil, errFrameTimeout
	}
}

func (p *Pool) emit(ctx context.Context, ev Event) {
	if p.cfg.Events == nil {
		return
	}
	select {
	case p.cfg.Events <- ev:
	case <-ctx.Done():
	}
}

// SliceSource serves an in-memory frame list, used for stills and single frames.
type SliceSource struct {
	frames []job.Frame
	pos    int
}

func NewSliceSource(frames ...job.Frame) *SliceSource {
	return &SliceSource{frames: frames}
}

func (s *SliceSource) Next(ctx context.Context) (job.Frame, bool, error) {
	if err := ctx.Err(); err != nil {
		return job.Frame{}, false, err
	}
	if s.pos >= len(s.frames) {
		return job.Frame{}, false, nil
	}
	f := s.frames[s.pos]
	s.pos++
	return f, true, nil
}
