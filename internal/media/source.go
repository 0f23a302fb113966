// Package media opens still images and videos and prepares their frames
// for rasterization.
package media

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/1F47E/go-asciireel/internal/errs"
	"github.com/1F47E/go-asciireel/internal/logger"
	"github.com/1F47E/go-asciireel/internal/meta"
)

var log = logger.Scope("media")

type Kind int

const (
	KindImage Kind = iota + 1
	KindVideo
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	}
	return "unknown"
}

var extensions = map[string]Kind{
	".png":  KindImage,
	".jpg":  KindImage,
	".jpeg": KindImage,
	".gif":  KindImage,
	".bmp":  KindImage,
	".tif":  KindImage,
	".tiff": KindImage,
	".webp": KindImage,
	".mp4":  KindVideo,
	".m4v":  KindVideo,
	".mov":  KindVideo,
	".mkv":  KindVideo,
	".webm": KindVideo,
	".avi":  KindVideo,
	".flv":  KindVideo,
	".wmv":  KindVideo,
	".mpg":  KindVideo,
	".mpeg": KindVideo,
	".ts":   KindVideo,
}

// Detect classifies path by its extension.
func Detect(path string) (Kind, error) {
	kind, ok := extensions[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return 0, fmt.Errorf("unsupported source file type %q", filepath.Ext(path))
	}
	return kind, nil
}

// Source is either a still image or a video; Kind tells which field is set.
type Source struct {
	Kind  Kind
	Path  string
	Info  meta.Info
	Still *StillImage
	Video *Video
}

type StillImage struct {
	Image *image.RGBA
}

// Open checks the source is readable and of a supported type, decodes
// stills and opens videos for decoding.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Config("open source", fmt.Errorf("source file is not readable: %w", err))
	}
	info, err := f.Stat()
	f.Close()
	if err != nil {
		return nil, errs.Config("open source", err)
	}
	if info.IsDir() {
		return nil, errs.Configf("open source", "source %s is a directory", path)
	}

	kind, err := Detect(path)
	if err != nil {
		return nil, errs.Config("open source", err)
	}

	src := &Source{Kind: kind, Path: path}
	switch kind {
	case KindImage:
		img, err := LoadImage(path)
		if err != nil {
			return nil, errs.Config("open source", err)
		}
		src.Still = &StillImage{Image: img}
		src.Info = meta.Info{Width: img.Rect.Dx(), Height: img.Rect.Dy(), Frames: 1}
	case KindVideo:
		v, err := OpenVideo(path)
		if err != nil {
			return nil, errs.Config("open source", err)
		}
		src.Video = v
		src.Info = v.Info()
	}
	log.Debugf("Opened %s source %s", kind, path)
	return src, nil
}

func (s *Source) Close() {
	if s.Video != nil {
		s.Video.Close()
	}
}
