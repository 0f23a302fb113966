package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/1F47E/go-asciireel/internal/logger"
)

// ffmpeg gets this long to exit once its pipes are closed or the context is done
const waitDelay = 5 * time.Second

func ffmpeg(ctx context.Context, args ...string) (*exec.Cmd, *bytes.Buffer) {
	logger.Log.Debugf("Running ffmpeg command: ffmpeg %s", strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay
	return cmd, &stderr
}

// exitError adds whatever ffmpeg printed to a failed wait.
func exitError(op string, err error, stderr *bytes.Buffer) error {
	msg := strings.TrimSpace(stderr.String())
	if msg == "" {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %s", op, err, msg)
}

// Reader decodes a video into tightly packed RGBA frames through an ffmpeg pipe.
// Cancelling the context kills ffmpeg.
type Reader struct {
	cmd    *exec.Cmd
	out    io.ReadCloser
	stderr *bytes.Buffer
	done   bool
}

func OpenReader(ctx context.Context, filename string, width, height int) (*Reader, error) {
	cmd, stderr := ffmpeg(ctx,
		"-v", "error",
		"-i", filename,
		"-an", "-sn",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", width, height),
		"-",
	)
	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("open video reader: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}
	return &Reader{cmd: cmd, out: out, stderr: stderr}, nil
}

// ReadFrame fills pix with the next frame. It returns false at the end of
// the stream, or with the error ffmpeg exited with.
func (r *Reader) ReadFrame(pix []byte) (bool, error) {
	if r.done {
		return false, nil
	}
	_, err := io.ReadFull(r.out, pix)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, io.EOF):
		r.done = true
		if werr := r.cmd.Wait(); werr != nil {
			return false, exitError("decode video", werr, r.stderr)
		}
		return false, nil
	case errors.Is(err, io.ErrUnexpectedEOF):
		r.done = true
		if werr := r.cmd.Wait(); werr != nil {
			return false, exitError("decode video", werr, r.stderr)
		}
		return false, errors.New("decode video: stream ended inside a frame")
	default:
		return false, fmt.Errorf("decode video: %w", err)
	}
}

// Close stops ffmpeg when the stream was not read to the end.
func (r *Reader) Close() error {
	if r.done {
		return nil
	}
	r.done = true
	_ = r.cmd.Process.Kill()
	_ = r.cmd.Wait()
	return nil
}

// Writer encodes RGBA frames into an H.264 file through an ffmpeg pipe,
// muxing an optional audio file.
type Writer struct {
	cmd    *exec.Cmd
	in     io.WriteCloser
	stderr *bytes.Buffer
	size   int
	closed bool
}

func NewWriter(ctx context.Context, filename string, width, height int, fps float64, audio string) (*Writer, error) {
	args := []string{
		"-y", "-v", "error",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", width, height),
		"-r", strconv.FormatFloat(fps, 'f', -1, 64),
		"-i", "-",
	}
	if audio != "" {
		args = append(args,
			"-i", audio,
			"-map", "0:v:0", "-map", "1:a:0",
			"-c:a", "copy",
			"-shortest",
		)
	}
	args = append(args,
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		filename,
	)
	cmd, stderr := ffmpeg(ctx, args...)
	in, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("open video writer: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}
	return &Writer{cmd: cmd, in: in, stderr: stderr, size: width * height * 4}, nil
}

// WriteFrame expects tightly packed RGBA pixels of the writer size.
func (w *Writer) WriteFrame(pix []byte) error {
	if len(pix) != w.size {
		return fmt.Errorf("frame has %d bytes, want %d", len(pix), w.size)
	}
	if _, err := w.in.Write(pix); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// Close finishes the stream and reports how ffmpeg exited.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	var errList []error
	if err := w.in.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		errList = append(errList, fmt.Errorf("close encoder input: %w", err))
	}
	if err := w.cmd.Wait(); err != nil {
		errList = append(errList, exitError("encode video", err, w.stderr))
	}
	return errors.Join(errList...)
}
