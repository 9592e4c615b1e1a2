package export

import (
	"context"
	"image"
	"path"
	"strings"
	"sync"

	"github.com/matzehuels/widgetshare/pkg/widget"
)

// Artifact is an encoded export ready for download or sharing.
// Artifacts are not modified after an encoder returns them.
type Artifact struct {
	Data        []byte
	Filename    string
	Format      widget.Format
	ContentType string
	Cached      bool // true when the bytes came from the artifact cache
}

// Size returns the payload length in bytes.
func (a *Artifact) Size() int {
	if a == nil {
		return 0
	}
	return len(a.Data)
}

// Extension returns the lowercase filename extension without the dot,
// falling back to the format name.
func (a *Artifact) Extension() string {
	if ext := strings.TrimPrefix(path.Ext(a.Filename), "."); ext != "" {
		return strings.ToLower(ext)
	}
	return a.Format.Extension()
}

// Element is a renderable widget view. Rasterize draws it at the given
// pixel-density multiplier; the bounds of the returned image are the
// element's bounding box at that scale. Transparent pixels are allowed and
// are flattened onto the configured background by the encoder.
type Element interface {
	Rasterize(ctx context.Context, scale float64) (image.Image, error)
}

// Fingerprinter is implemented by elements whose rendering is fully
// determined by a content digest. Only such elements are cached.
type Fingerprinter interface {
	Fingerprint() string
}

// Ref holds the element currently attached to a widget. It may be detached
// at any time by the view layer. The zero value is an empty reference.
type Ref struct {
	mu sync.RWMutex
	el Element
}

// NewRef returns a reference attached to el.
func NewRef(el Element) *Ref {
	return &Ref{el: el}
}

// Current returns the attached element or nil. A nil *Ref has no element.
func (r *Ref) Current() Element {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.el
}

// Set attaches el.
func (r *Ref) Set(el Element) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.el = el
}

// Detach clears the reference.
func (r *Ref) Detach() {
	r.Set(nil)
}
