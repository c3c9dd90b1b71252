package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// logHooks implements the observability hooks by logging at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnDocumentStart(_ context.Context, path string) {
	h.logger.Debug("loading drawing", "file", path)
}

func (h *logHooks) OnDocumentComplete(_ context.Context, path string, views int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("drawing failed", "file", path, "err", err)
		return
	}
	h.logger.Debug("drawing loaded", "file", path, "views", views, "duration", d)
}

func (h *logHooks) OnConvertStart(_ context.Context, view string) {
	h.logger.Debug("converting view", "view", view)
}

func (h *logHooks) OnConvertComplete(_ context.Context, view string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("conversion failed", "view", view, "err", err)
	}
}

func (h *logHooks) OnMergeComplete(_ context.Context, output string, pages int, d time.Duration, err error) {
	h.logger.Debug("merged pages", "file", output, "pages", pages, "duration", d, "err", err)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *logHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Info("served", "method", method, "path", path, "status", status, "duration", d)
}
