package goom

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler drops every record. Enabled is false at all levels, so
// disabled calls never build their attributes.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var silent = slog.New(nopHandler{})

// active is read by the producer worker while SetLogger may run on any
// goroutine.
var active atomic.Pointer[slog.Logger]

func init() {
	active.Store(silent)
}

// SetLogger installs l as the destination for goom's log records. goom is
// silent until SetLogger is called; passing nil silences it again. It may
// be called at any time, including while a pass is running.
//
// Levels:
//   - [slog.LevelDebug]: pass timings, worker exit
//   - [slog.LevelInfo]: coordinator start and shutdown, settings commit, resize
//   - [slog.LevelWarn]: Update after Shutdown
//   - [slog.LevelError]: a contract violation, just before its panic
//
// For example:
//
//	goom.SetLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	active.Store(l)
}

// Logger returns the logger installed by SetLogger.
func Logger() *slog.Logger {
	return active.Load()
}

// componentLogger tags the current logger with a component attribute.
func componentLogger(component string) *slog.Logger {
	return Logger().With("component", component)
}
