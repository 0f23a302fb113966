package core

import (
	"context"

	"github.com/1F47E/go-asciireel/internal/media"
	"github.com/1F47E/go-asciireel/internal/workers"
)

// Progress is told about pipeline stages and frame completions.
type Progress interface {
	Spinner(desc string)
	Reset(max int, desc string)
	Set(n int)
	Track(events <-chan workers.Event)
	Finish()
}

type Core struct {
	ctx      context.Context
	progress Progress
	open     func(path string) (*media.Source, error)
}

func NewCore(ctx context.Context, progress Progress) *Core {
	if progress == nil {
		progress = nopProgress{}
	}
	return &Core{
		ctx:      ctx,
		progress: progress,
		open:     media.Open,
	}
}

type nopProgress struct{}

func (nopProgress) Spinner(string) {}
func (nopProgress) Reset(int, string) {}
func (nopProgress) Set(int) {}
func (nopProgress) Finish() {}
func (nopProgress) Track(events <-chan workers.Event) {
	for range events {
	}
}
