package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/1F47E/go-asciireel/internal/errs"
	"github.com/1F47E/go-asciireel/internal/job"
	"github.com/1F47E/go-asciireel/internal/logger"
	"github.com/1F47E/go-asciireel/internal/media"
	"github.com/1F47E/go-asciireel/internal/meta"
	"github.com/1F47E/go-asciireel/internal/sequence"
	"github.com/1F47E/go-asciireel/internal/storage"
	"github.com/1F47E/go-asciireel/internal/video"
	"github.com/1F47E/go-asciireel/internal/workers"
)

const (
	audioFile   = "audio.m4a"
	encodedFile = "output.mp4"
)

// Generate renders req.Source into an ASCII copy in req.Destination and
// returns the published path.
//  1. open the source and lock the output path
//  2. render every frame into a fresh workspace with the worker pool
//  3. publish the png, or assemble the frames into a video first
//
// The workspace is removed on every path. The artifact is staged next to the
// output and renamed into place only after the workspace is gone, so a
// failed run publishes nothing.
func (c *Core) Generate(req Request) (output string, err error) {
	runID := uuid.NewString()
	log := logger.Log.WithFields(logrus.Fields{"scope": "core generate", "run": runID[:8]})
	started := time.Now()

	cfg := req.Config
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	name, err := req.name()
	if err != nil {
		return "", err
	}
	if err := storage.CheckDestination(req.Destination); err != nil {
		return "", errs.Config("destination", err)
	}

	c.progress.Spinner("Opening source...")
	src, err := c.open(req.Source)
	if err != nil {
		return "", err
	}
	defer src.Close()
	log.Infof("Source %s: %s", src.Kind, src.Info.Print())

	still := src.Kind == media.KindImage || req.Frame != nil
	ext := ".mp4"
	if still {
		ext = ".png"
	}
	output = filepath.Join(req.Destination, name+ext)
	staged := filepath.Join(req.Destination, "."+name+ext+".staged")

	lock, err := storage.LockOutput(output)
	if err != nil {
		return "", err
	}
	defer func() {
		err = errors.Join(err, lock.Unlock())
	}()

	err = storage.WithWorkspace("asciireel-"+runID[:8], func(ws *storage.Workspace) error {
		log.Debugf("Workspace: %s", ws.Dir())
		if still {
			return c.generateStill(req, src, ws, staged, log)
		}
		return c.generateVideo(req, src, ws, staged, log)
	})
	if err = finish(staged, output, err); err != nil {
		return "", err
	}
	log.Infof("Saved %s in %s", output, time.Since(started).Round(time.Millisecond))
	return output, nil
}

func (c *Core) generateStill(req Request, src *media.Source, ws *storage.Workspace, staged string, log *logrus.Entry) error {
	var frame job.Frame
	switch {
	case src.Kind == media.KindImage:
		frame = job.New(1, src.Still.Image)
	default:
		second, err := req.frameAt(src.Info)
		if err != nil {
			return err
		}
		c.progress.Spinner(fmt.Sprintf("Seeking frame at %.2fs...", second))
		f, err := src.Video.FrameAt(c.ctx, second)
		if err != nil {
			return errs.Processing("seek frame", err)
		}
		frame = f
	}

	plan, err := NewPlan(req.Config, src.Info, src.Kind == media.KindVideo)
	if err != nil {
		return err
	}
	log.Infof("Rendering %s", plan)

	if _, err := c.render(plan, ws, workers.NewSliceSource(frame), 1, meta.NewNamer(1)); err != nil {
		return err
	}
	frames, err := ws.Frames()
	if err != nil {
		return errs.Resource("list frames", err)
	}
	if len(frames) != 1 {
		return errs.Processing("render", fmt.Errorf("expected one rendered frame, found %d", len(frames)))
	}
	if err := storage.Publish(frames[0], staged); err != nil {
		return errs.Resource("publish", err)
	}
	return nil
}

func (c *Core) generateVideo(req Request, src *media.Source, ws *storage.Workspace, staged string, log *logrus.Entry) error {
	cfg := req.Config
	start, end, err := req.segment(src.Info)
	if err != nil {
		return err
	}
	if req.Start != nil || req.End != nil {
		src.Video.Trim(start, end)
		log.Infof("Segment %.2fs - %.2fs", start, end)
	}
	window := src.Video.Window()

	plan, err := NewPlan(cfg, src.Info, true)
	if err != nil {
		return err
	}
	log.Infof("Rendering %s", plan)

	// an untrimmed stream may yield more frames than its header promises
	namer := meta.NewNamer(window.EstimatedFrames())
	if !src.Video.Trimmed() {
		namer = namer.WithHeadroom()
	}
	n, err := c.render(plan, ws, src.Video, window.EstimatedFrames(), namer)
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.Processing("render", errors.New("source yielded no frames"))
	}

	audio := ""
	if !cfg.Mute {
		c.progress.Spinner("Extracting audio...")
		audio, err = c.extractAudio(src.Path, ws, start, end)
		if err != nil {
			return err
		}
	}

	frames, err := ws.Frames()
	if err != nil {
		return errs.Resource("list frames", err)
	}
	c.progress.Reset(len(frames), "Assembling video")
	encoded := ws.Path(encodedFile)
	asm := sequence.Assembler{ForceAspectRatio: cfg.ForceAspectRatio}
	err = asm.Assemble(c.ctx, frames, func(width, height int) (sequence.Sink, error) {
		w, err := video.NewWriter(c.ctx, encoded, width, height, window.FPS, audio)
		if err != nil {
			return nil, err
		}
		return &countingSink{Sink: w, progress: c.progress}, nil
	})
	c.progress.Finish()
	if err != nil {
		return err
	}
	if err := storage.Publish(encoded, staged); err != nil {
		return errs.Resource("publish", err)
	}
	return nil
}

// render runs the pool over src and reports progress until it returns.
func (c *Core) render(plan *Plan, ws *storage.Workspace, src workers.Source, frames int, namer meta.Namer) (int, error) {
	events := make(chan workers.Event, plan.cfg.Threads)
	pool, err := plan.pool(ws, namer, events)
	if err != nil {
		return 0, err
	}

	c.progress.Reset(frames, "Rendering frames")
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.progress.Track(events)
	}()

	n, err := pool.Run(c.ctx, src)
	close(events)
	<-done
	c.progress.Finish()
	return n, err
}

func (c *Core) extractAudio(path string, ws *storage.Workspace, start, end float64) (string, error) {
	has, err := video.HasAudio(c.ctx, path)
	if err != nil {
		return "", errs.Processing("probe audio", err)
	}
	if !has {
		logger.Scope("core generate").Debug("Source has no audio stream")
		return "", nil
	}
	dst := ws.Path(audioFile)
	if err := video.ExtractAudio(c.ctx, path, dst, start, end); err != nil {
		return "", errs.Processing("extract audio", err)
	}
	return dst, nil
}

// finish renames the staged artifact to output, or drops it when the run failed.
func finish(staged, output string, err error) error {
	if err != nil {
		if rerr := os.Remove(staged); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
			return errors.Join(err, errs.Resource("discard output", rerr))
		}
		return err
	}
	if err := os.Rename(staged, output); err != nil {
		_ = os.Remove(staged)
		return errs.Resource("publish", err)
	}
	return nil
}

// countingSink advances the progress bar per written frame.
type countingSink struct {
	sequence.Sink
	progress Progress
	n        int
}

func (s *countingSink) WriteFrame(pix []byte) error {
	if err := s.Sink.WriteFrame(pix); err != nil {
		return err
	}
	s.n++
	s.progress.Set(s.n)
	return nil
}
