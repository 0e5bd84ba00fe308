package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// The hook implementations turn library events into debug log lines.

type logHTTPHooks struct{ logger *log.Logger }

func (h *logHTTPHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("request", "method", method, "host", host, "path", path)
}

func (h *logHTTPHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "host", host, "path", path, "status", status, "took", d.Round(time.Millisecond))
}

func (h *logHTTPHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("request failed", "method", method, "host", host, "path", path, "err", err)
}

func (h *logHTTPHooks) OnRetry(_ context.Context, method, host, path string, attempt int, err error) {
	h.logger.Warn("retrying", "host", host, "path", path, "attempt", attempt, "err", err)
}

type logSearchHooks struct{ logger *log.Logger }

func (h *logSearchHooks) OnSourceStart(_ context.Context, source, query string) {
	h.logger.Debug("source started", "source", source, "query", query)
}

func (h *logSearchHooks) OnSourceComplete(_ context.Context, source, query string, offers int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("source finished with error", "source", source, "query", query, "took", d.Round(time.Millisecond), "err", err)
		return
	}
	h.logger.Debug("source finished", "source", source, "query", query, "offers", offers, "took", d.Round(time.Millisecond))
}

type logWizardHooks struct{ logger *log.Logger }

func (h *logWizardHooks) OnStep(_ context.Context, session string, open int) {
	h.logger.Debug("wizard step", "session", session, "open", open)
}

func (h *logWizardHooks) OnAutoFill(_ context.Context, session, field, value string) {
	h.logger.Debug("auto-filled", "session", session, "field", field, "value", value)
}

type logCacheHooks struct{ logger *log.Logger }

func (h *logCacheHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logCacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logCacheHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "size", size)
}
