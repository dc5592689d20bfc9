package raster

import (
	"context"
	"log/slog"
	"math"
	"sync/atomic"
)

// nopHandler discards every record. Enabled reports false so callers skip
// building attributes when logging is off.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger sets the logger used by the engine and by pkg/render.
// The engine is silent by default; pass nil to silence it again.
//
// Levels:
//   - Debug: parameter clamping and non-finite coordinate substitution
//   - Warn: recoverable misuse such as degenerate perspective triangles
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current engine logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// clampParam clamps v to [lo,hi] and logs at debug level when it had to.
// NaN collapses to def.
func clampParam(name string, v, lo, hi, def float64) float64 {
	out := v
	switch {
	case math.IsNaN(v):
		out = def
	case v < lo:
		out = lo
	case v > hi:
		out = hi
	}
	if out != v {
		Logger().Debug("parameter clamped", "param", name, "value", v, "clamped", out)
	}
	return out
}

func clampIntParam(name string, v, lo, hi int) int {
	out := v
	if v < lo {
		out = lo
	} else if v > hi {
		out = hi
	}
	if out != v {
		Logger().Debug("parameter clamped", "param", name, "value", v, "clamped", out)
	}
	return out
}
