// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texcache

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the package default logger.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the default logger for texcache and its
// sub-packages. By default nothing is logged. Pass nil to restore silence.
// Caches created with WithLogger use their own logger instead.
//
// Log levels used:
//   - [slog.LevelDebug]: probe collisions, evictions, promotions
//   - [slog.LevelWarn]: refused off-thread calls, decode and upload failures
//
// SetLogger is safe for concurrent use.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the default logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// logger returns the cache's logger, falling back to the package default.
func (c *Cache) logger() *slog.Logger {
	if c.opts.logger != nil {
		return c.opts.logger
	}
	return Logger()
}
