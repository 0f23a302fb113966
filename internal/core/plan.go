package core

import (
	"fmt"
	"image"
	"time"

	"github.com/golang/freetype/truetype"

	"github.com/1F47E/go-asciireel/internal/config"
	"github.com/1F47E/go-asciireel/internal/encoder"
	"github.com/1F47E/go-asciireel/internal/errs"
	"github.com/1F47E/go-asciireel/internal/glyph"
	"github.com/1F47E/go-asciireel/internal/media"
	"github.com/1F47E/go-asciireel/internal/meta"
	"github.com/1F47E/go-asciireel/internal/preset"
	"github.com/1F47E/go-asciireel/internal/storage"
	"github.com/1F47E/go-asciireel/internal/workers"
)

// Plan is the resolved rendering setup for one source.
type Plan struct {
	Quality  int
	Weights  [3]float64
	Bounds   image.Rectangle // source size after scaling
	Settings preset.Settings
	// Preset reports whether a preset row was applied.
	Preset bool
	Glyphs glyph.Set
	Font   *truetype.Font
	Canvas image.Point

	cfg config.Config
}

// NewPlan resolves the preset for the scaled source and checks the
// chunk divides the frame. Sources are scaled to the configured quality
// only when scale is set, stills keep their native size.
func NewPlan(cfg config.Config, info meta.Info, scale bool) (*Plan, error) {
	glyphs, err := cfg.GlyphSet()
	if err != nil {
		return nil, errs.Config("plan", err)
	}
	name, err := cfg.PresetName()
	if err != nil {
		return nil, errs.Config("plan", err)
	}
	quality := 0
	if scale {
		quality = cfg.SourceQuality()
	}
	filter, err := media.NewFilter(quality, cfg.Weights)
	if err != nil {
		return nil, errs.Config("plan", err)
	}
	bounds := filter.Bounds(image.Rect(0, 0, info.Width, info.Height))

	current := preset.Settings{
		ChunkW:    cfg.Chunk[0],
		ChunkH:    cfg.Chunk[1],
		GlyphSize: cfg.FontSize,
		FontPath:  cfg.FontPath,
	}
	settings, applied := preset.Resolve(name, bounds.Dx(), bounds.Dy(), current, cfg.DefaultFont)

	if err := encoder.CheckDimensions(bounds.Dx(), bounds.Dy(), settings.ChunkW, settings.ChunkH); err != nil {
		return nil, err
	}

	fnt, err := encoder.LoadFont(settings.FontPath)
	if err != nil {
		return nil, errs.Config("plan", err)
	}
	w, h := encoder.CanvasSize(bounds.Dx(), bounds.Dy(), settings.ChunkW, settings.ChunkH, settings.GlyphSize)

	return &Plan{
		Quality:  quality,
		Weights:  cfg.Weights,
		Bounds:   bounds,
		Settings: settings,
		Preset:   applied,
		Glyphs:   glyphs,
		Font:     fnt,
		Canvas:   image.Pt(w, h),
		cfg:      cfg,
	}, nil
}

// renderer scales and desaturates a source frame, then draws its glyphs.
type renderer struct {
	filter *media.Filter
	enc    *encoder.FrameEncoder
}

func (r renderer) Render(src *image.RGBA) (*image.RGBA, error) {
	return r.enc.EncodeFrame(r.filter.Apply(src))
}

// NewRenderer builds one renderer per worker. The parsed font is shared,
// faces are not.
func (p *Plan) NewRenderer() (workers.Renderer, error) {
	filter, err := media.NewFilter(p.Quality, p.Weights)
	if err != nil {
		return nil, err
	}
	enc, err := encoder.NewFrameEncoder(encoder.Options{
		ChunkW:    p.Settings.ChunkW,
		ChunkH:    p.Settings.ChunkH,
		GlyphSize: p.Settings.GlyphSize,
		Glyphs:    p.Glyphs,
		Color:     p.cfg.Color(),
		Font:      p.Font,
	})
	if err != nil {
		return nil, err
	}
	return renderer{filter: filter, enc: enc}, nil
}

func (p *Plan) pool(store workers.FrameStore, namer meta.Namer, events chan<- workers.Event) (*workers.Pool, error) {
	return workers.NewPool(workers.Config{
		Workers:      p.cfg.Threads,
		NewRenderer:  p.NewRenderer,
		Store:        store,
		Namer:        namer,
		Compression:  storage.CompressionLevel(p.cfg.Compression),
		FrameTimeout: time.Duration(p.cfg.FrameTimeout) * time.Second,
		Events:       events,
	})
}

func (p *Plan) String() string {
	font := p.Settings.FontPath
	if font == "" {
		font = "Go Mono"
	}
	return fmt.Sprintf("source %dx%d, chunk %dx%d, glyph size %d, font %s, canvas %dx%d",
		p.Bounds.Dx(), p.Bounds.Dy(), p.Settings.ChunkW, p.Settings.ChunkH,
		p.Settings.GlyphSize, font, p.Canvas.X, p.Canvas.Y)
}
