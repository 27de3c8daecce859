package overdriven

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/overdriven/internal/gpu"
)

// nopHandler reports every level as disabled, so frame logging in Render
// costs nothing until a host installs a logger.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr is swapped by SetLogger while render loops may be logging.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger routes the log output of Context, LineRenderer and the HAL
// helpers to l. A nil l silences them again, which is also the state
// before the first call.
//
// Records emitted:
//   - Info "gpu: adapter selected" once per Context, with the adapter name
//     and device type.
//   - Info "overdriven: surface configured" once per Context, with the
//     chosen format and present mode.
//   - Warn "overdriven: resize ignored" for a Resize to 1 pixel or less
//     without WithStrictResize.
//   - Warn "overdriven: frame acquisition failed, reconfiguring" before
//     each acquire retry.
//   - Debug "gpu: buffer uploaded" for every vertex and index upload.
//   - Debug "overdriven: frame rendered" after each submitted frame.
//
// A renderer drawing at display rate emits one Debug record per frame, so
// hosts usually filter at Info:
//
//	overdriven.SetLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	gpu.SetLogger(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
