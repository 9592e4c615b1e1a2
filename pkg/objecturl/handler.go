package objecturl

import (
	"bytes"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/widgetshare/pkg/observability"
)

// Handler returns the HTTP router serving registered objects.
func (r *Registry) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(observe)
	router.Get("/objects/{id}", r.serveObject)
	return router
}

func (r *Registry) serveObject(w http.ResponseWriter, req *http.Request) {
	obj, ok := r.Get(chi.URLParam(req, "id"))
	if !ok {
		http.NotFound(w, req)
		return
	}

	if obj.ContentType != "" {
		w.Header().Set("Content-Type", headerContentType(obj.ContentType))
	}
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": obj.Filename})
	if disposition == "" {
		disposition = "attachment"
	}
	w.Header().Set("Content-Disposition", disposition)
	w.Header().Set("Cache-Control", "no-store")

	http.ServeContent(w, req, obj.Filename, obj.Created, bytes.NewReader(obj.Data))
}

// headerContentType adds charset=utf-8 to text types that carry no charset.
func headerContentType(ct string) string {
	mediaType, params, err := mime.ParseMediaType(ct)
	if err != nil || !strings.HasPrefix(mediaType, "text/") || params["charset"] != "" {
		return ct
	}
	params["charset"] = "utf-8"
	return mime.FormatMediaType(mediaType, params)
}

// observe reports each request to the registered HTTP hooks.
func observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(req.Context(), req.Method, req.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(req.Context(), req.Method, req.URL.Path, status, time.Since(start))
	})
}
