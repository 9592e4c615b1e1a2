package export

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/widgetshare/pkg/cache"
	"github.com/matzehuels/widgetshare/pkg/observability"
	"github.com/matzehuels/widgetshare/pkg/widget"
)

// Option configures an Encoder.
type Option func(*Encoder)

// WithLayout sets the PDF layout (default DefaultPDFLayout).
func WithLayout(l PDFLayout) Option {
	return func(e *Encoder) { e.layout = l }
}

// WithImageConfig sets rasterization parameters (default DefaultImageConfig).
func WithImageConfig(c ImageConfig) Option {
	return func(e *Encoder) { e.image = c }
}

// WithClock sets the time source used for filenames and PDF metadata.
func WithClock(now func() time.Time) Option {
	return func(e *Encoder) { e.now = now }
}

// WithCache memoizes encoded bytes in c for ttl (zero means no expiry).
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(e *Encoder) { e.cache, e.ttl = c, ttl }
}

// WithKeyer sets the cache keyer (default cache.DefaultKeyer).
func WithKeyer(k cache.Keyer) Option {
	return func(e *Encoder) { e.keyer = k }
}

// WithCompression toggles PDF stream compression (default on).
func WithCompression(on bool) Option {
	return func(e *Encoder) { e.compress = on }
}

// WithLogger sets the logger for cache and encoding diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(e *Encoder) { e.logger = l }
}

// Encoder produces artifacts from table data and graph elements.
// It holds no per-call state and is safe for concurrent use.
type Encoder struct {
	layout   PDFLayout
	image    ImageConfig
	now      func() time.Time
	cache    cache.Cache
	keyer    cache.Keyer
	ttl      time.Duration
	compress bool
	logger   *log.Logger
}

// NewEncoder creates an encoder. Missing options fall back to defaults and
// a null cache.
func NewEncoder(opts ...Option) *Encoder {
	e := &Encoder{
		layout:   DefaultPDFLayout(),
		image:    DefaultImageConfig(),
		now:      time.Now,
		compress: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cache == nil {
		e.cache = cache.NewNullCache()
	}
	if e.keyer == nil {
		e.keyer = cache.NewDefaultKeyer()
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	return e
}

// Layout returns the PDF layout in use.
func (e *Encoder) Layout() PDFLayout { return e.layout }

// ImageConfig returns the rasterization parameters in use.
func (e *Encoder) ImageConfig() ImageConfig { return e.image }

// artifact wraps data with a freshly generated filename.
func (e *Encoder) artifact(data []byte, title string, f widget.Format, cached bool) *Artifact {
	return &Artifact{
		Data:        data,
		Filename:    GenerateFileName(title, f, e.now()),
		Format:      f,
		ContentType: f.ContentType(),
		Cached:      cached,
	}
}

// memoize returns cached bytes for key or runs encode and stores its output.
// An empty key disables caching. Cache failures are logged, never returned.
func (e *Encoder) memoize(ctx context.Context, key string, encode func() ([]byte, error)) ([]byte, bool, error) {
	if key == "" {
		data, err := encode()
		return data, false, err
	}

	data, hit, err := e.cache.Get(ctx, key)
	if err != nil {
		e.logger.Warn("artifact cache read failed", "err", err)
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, "artifact")
		e.logger.Debug("artifact cache hit", "key", key)
		return data, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	data, err = encode()
	if err != nil {
		return nil, false, err
	}
	if err := e.cache.Set(ctx, key, data, e.ttl); err != nil {
		e.logger.Warn("artifact cache write failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return data, false, nil
}

func (e *Encoder) tableKey(t widget.Table, f widget.Format) string {
	opts := cache.ArtifactKeyOpts{
		Kind:     widget.KindTable.String(),
		Format:   f.String(),
		Title:    t.Title,
		DataHash: cache.HashJSON(struct {
			Columns []widget.Column
			Rows    []widget.Row
		}{t.Columns, t.Rows}),
	}
	if f == widget.FormatPDF {
		opts.Layout = struct {
			PDF      PDFLayout
			Compress bool
		}{e.layout, e.compress}
	}
	return e.keyer.ArtifactKey(opts)
}

func (e *Encoder) elementKey(el Element, title string, f widget.Format) string {
	fp, ok := el.(Fingerprinter)
	if !ok {
		return ""
	}
	opts := cache.ArtifactKeyOpts{
		Kind:     widget.KindGraph.String(),
		Format:   f.String(),
		Title:    title,
		DataHash: fp.Fingerprint(),
		Layout:   e.image,
	}
	if f == widget.FormatPDF {
		opts.Layout = struct {
			PDF      PDFLayout
			Image    ImageConfig
			Compress bool
		}{e.layout, e.image, e.compress}
	}
	return e.keyer.ArtifactKey(opts)
}
