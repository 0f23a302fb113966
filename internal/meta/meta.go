package meta

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	FramePrefix = "frame_"
	FrameExt    = ".png"
)

// Info describes a decoded source.
type Info struct {
	Width    int
	Height   int
	FPS      float64
	Duration float64 // seconds
	Frames   int     // decoder frame count, 0 when unknown
}

// EstimatedFrames is the expected number of frames, at least 1.
func (i Info) EstimatedFrames() int {
	n := int(math.Ceil(i.FPS * i.Duration))
	if i.Frames > n {
		n = i.Frames
	}
	if n < 1 {
		n = 1
	}
	return n
}

func (i Info) Print() string {
	return fmt.Sprintf("%dx%d, %.3f fps, %.2fs, ~%d frames", i.Width, i.Height, i.FPS, i.Duration, i.EstimatedFrames())
}

// Namer produces zero-padded frame file names so lexical order is sequence order.
type Namer struct {
	digits int
}

func NewNamer(frames int) Namer {
	if frames < 1 {
		frames = 1
	}
	return Namer{digits: len(strconv.Itoa(frames))}
}

// WithHeadroom widens the names by one digit for counts that are only estimates.
func (n Namer) WithHeadroom() Namer {
	return Namer{digits: n.digits + 1}
}

func (n Namer) Digits() int {
	return n.digits
}

// Name fails for indexes wider than the padding, they would break the sort order.
func (n Namer) Name(index int) (string, error) {
	if index < 1 {
		return "", fmt.Errorf("frame index must be positive, got %d", index)
	}
	s := strconv.Itoa(index)
	if len(s) > n.digits {
		return "", fmt.Errorf("frame index %d exceeds %d digit frame names", index, n.digits)
	}
	return FramePrefix + strings.Repeat("0", n.digits-len(s)) + s + FrameExt, nil
}

// IsFrame reports whether a file name was produced by a Namer.
func IsFrame(name string) bool {
	if !strings.HasPrefix(name, FramePrefix) || !strings.HasSuffix(name, FrameExt) {
		return false
	}
	digits := strings.TrimSuffix(strings.TrimPrefix(name, FramePrefix), FrameExt)
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
