// Package progress draws the frame counter on the terminal.
package progress

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/1F47E/go-asciireel/internal/workers"
)

type Reporter struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

// New returns a reporter writing to out. Pass io.Discard to silence it.
func New(out io.Writer) *Reporter {
	r := &Reporter{out: out}
	r.bar = r.create(-1, "")
	return r
}

// ForTerminal draws on stderr when it is a terminal and quiet is off.
func ForTerminal(quiet bool) *Reporter {
	fd := os.Stderr.Fd()
	if quiet || !(isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)) {
		return New(io.Discard)
	}
	return New(os.Stderr)
}

func (r *Reporter) Spinner(desc string) {
	_ = r.bar.Clear()
	r.bar = r.create(-1, desc)
	_ = r.bar.RenderBlank()
}

func (r *Reporter) Reset(max int, desc string) {
	_ = r.bar.Clear()
	r.bar = r.create(max, desc)
}

func (r *Reporter) Set(n int) {
	_ = r.bar.Set(n)
}

func (r *Reporter) Finish() {
	_ = r.bar.Finish()
}

// Track moves the bar with the pool events until events is closed.
// Events may arrive out of index order, the bar follows the completed count.
func (r *Reporter) Track(events <-chan workers.Event) {
	for ev := range events {
		r.Set(int(ev.Completed))
	}
}

func (r *Reporter) create(max int, desc string) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetWriter(r.out),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionShowCount(),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]#[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
