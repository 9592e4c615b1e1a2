// Package objecturl hands out short-lived URLs for in-memory artifacts.
//
// A [Registry] plays the part of a browser object URL store: [Registry.Create]
// registers bytes under a random id and returns a URL that a download
// collaborator (for example a web browser) can fetch. References stay
// valid until revoked, usually on a timer via [Registry.RevokeAfter].
//
// The registry serves its objects over HTTP through [Registry.Handler]:
//
//	GET /objects/{id}
//
// Responses carry the stored content type and a Content-Disposition header
// naming the file. Revoked ids answer 404.
package objecturl

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Object is a registered artifact.
type Object struct {
	ID          string
	URL         string
	Filename    string
	ContentType string
	Data        []byte
	Created     time.Time
}

// Registry stores objects until they are revoked. It is safe for concurrent
// use.
type Registry struct {
	mu      sync.Mutex
	base    string
	objects map[string]*Object
	timers  map[string]*time.Timer
	idle    chan struct{} // closed while the registry is empty
	now     func() time.Time
}

// NewRegistry creates a registry whose URLs are rooted at baseURL, e.g.
// "http://127.0.0.1:8765". An empty base yields "/objects/{id}" paths.
func NewRegistry(baseURL string) *Registry {
	idle := make(chan struct{})
	close(idle)
	return &Registry{
		base:    strings.TrimSuffix(baseURL, "/"),
		objects: make(map[string]*Object),
		timers:  make(map[string]*time.Timer),
		idle:    idle,
		now:     time.Now,
	}
}

// BaseURL returns the URL prefix for new objects.
func (r *Registry) BaseURL() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.base
}

// SetBaseURL changes the URL prefix for objects created afterwards.
func (r *Registry) SetBaseURL(baseURL string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.base = strings.TrimSuffix(baseURL, "/")
}

// Create registers data and returns its reference.
func (r *Registry) Create(data []byte, filename, contentType string) *Object {
	id := uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()

	obj := &Object{
		ID:          id,
		URL:         r.base + "/objects/" + id,
		Filename:    filename,
		ContentType: contentType,
		Data:        data,
		Created:     r.now(),
	}
	if len(r.objects) == 0 {
		r.idle = make(chan struct{})
	}
	r.objects[id] = obj
	return obj
}

// Get returns the object registered under id.
func (r *Registry) Get(id string) (*Object, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	obj, ok := r.objects[id]
	return obj, ok
}

// Revoke releases id immediately. It reports whether the id was live.
func (r *Registry) Revoke(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.revokeLocked(id)
}

// RevokeAfter schedules id for release after d. A later call replaces the
// earlier schedule.
func (r *Registry) RevokeAfter(id string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.objects[id]; !ok {
		return
	}
	if t, ok := r.timers[id]; ok {
		t.Stop()
	}
	r.timers[id] = time.AfterFunc(d, func() { r.Revoke(id) })
}

func (r *Registry) revokeLocked(id string) bool {
	if _, ok := r.objects[id]; !ok {
		return false
	}
	delete(r.objects, id)
	if t, ok := r.timers[id]; ok {
		t.Stop()
		delete(r.timers, id)
	}
	if len(r.objects) == 0 {
		close(r.idle)
	}
	return true
}

// Len returns the number of live objects.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.objects)
}

// Wait blocks until every object has been revoked or ctx is done.
func (r *Registry) Wait(ctx context.Context) error {
	r.mu.Lock()
	idle := r.idle
	r.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close revokes all objects and stops pending timers.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id := range r.objects {
		r.revokeLocked(id)
	}
}

// ListenAndServe serves the registry on addr until ctx is done. The base URL
// is set from the bound listener before ListenAndServe returns, so a ":0"
// port is usable. The returned channel yields the server's exit error.
func (r *Registry) ListenAndServe(ctx context.Context, addr string) (<-chan error, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	r.SetBaseURL("http://" + ln.Addr().String())

	srv := &http.Server{
		Handler:           r.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	done := make(chan error, 1)
	go func() {
		err := srv.Serve(ln)
		if err == http.ErrServerClosed {
			err = nil
		}
		done <- err
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	return done, nil
}
