package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/widgetshare/pkg/observability"
)

// logHooks reports export, share, cache and HTTP events at debug level.
type logHooks struct {
	logger *log.Logger
}

// installHooks routes observability events to l.
func installHooks(l *log.Logger) {
	h := logHooks{logger: l}
	observability.SetExportHooks(h)
	observability.SetShareHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h logHooks) OnExportStart(_ context.Context, kind, format string) {
	h.logger.Debug("export started", "kind", kind, "format", format)
}

func (h logHooks) OnExportComplete(_ context.Context, kind, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("export failed", "kind", kind, "format", format, "duration", d, "err", err)
		return
	}
	h.logger.Debug("export finished", "kind", kind, "format", format, "bytes", size, "duration", d)
}

func (h logHooks) OnShareStart(_ context.Context, platform string) {
	h.logger.Debug("share started", "platform", platform)
}

func (h logHooks) OnShareComplete(_ context.Context, platform, method string, cancelled bool, d time.Duration, err error) {
	h.logger.Debug("share finished", "platform", platform, "method", method, "cancelled", cancelled, "duration", d, "err", err)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("object request", "method", method, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Debug("object response", "method", method, "path", path, "status", status, "duration", d)
}
