package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event as a debug line. It implements RenderHooks,
// CacheHooks and HTTPHooks.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks logging to l.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{Logger: l}
}

// Install registers h for all event kinds.
func (h *LogHooks) Install() {
	SetRenderHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnRenderStart(_ context.Context, sceneID, format string) {
	h.Logger.Debug("render start", "scene", sceneID, "format", format)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, sceneID, format string, nodes int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("render failed", "scene", sceneID, "format", format, "duration", d, "error", err)
		return
	}
	h.Logger.Debug("render complete", "scene", sceneID, "format", format, "nodes", nodes, "duration", d)
}

func (h *LogHooks) OnImageLoad(_ context.Context, src string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("image load failed", "src", shorten(src), "duration", d, "error", err)
		return
	}
	h.Logger.Debug("image loaded", "src", shorten(src), "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.Logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.Logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.Logger.Debug("http error", "method", method, "host", host, "path", path, "error", err)
}

// shorten keeps data URLs from flooding the log.
func shorten(src string) string {
	const limit = 64
	if len(src) <= limit {
		return src
	}
	return src[:limit] + "..."
}
