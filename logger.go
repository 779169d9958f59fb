package gfxtest

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/gfxtest/capture"
	"github.com/gogpu/gfxtest/device"
	"github.com/gogpu/gfxtest/shader"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for gfxtest and its sub-packages
// (shader, device, capture). By default nothing is logged.
//
// Pass nil to restore silent behavior. SetLogger is safe for concurrent use.
//
// Log levels used:
//   - [slog.LevelDebug]: module loads, program composition, dispatches
//   - [slog.LevelInfo]: device creation, skipped backends
//   - [slog.LevelWarn]: snapshot write failures
//
// Example:
//
//	gfxtest.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	shader.SetLogger(l)
	device.SetLogger(l)
	capture.SetLogger(l)
}

// Logger returns the current gfxtest logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
