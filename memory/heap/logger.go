package heap

import (
	"context"
	"sync/atomic"

	"golang.org/x/exp/slog"
)

var logger atomic.Pointer[slog.Logger]

// SetLogger sets the logger that receives diagnostics from the process-wide free lists used by
// FreeList policies. Passing nil silences them, which is also the default.
func SetLogger(l *slog.Logger) {
	logger.Store(l)
}

func currentLogger() *slog.Logger {
	return logger.Load()
}

func logDebug(msg string, attrs ...slog.Attr) {
	l := currentLogger()
	if l == nil {
		return
	}
	l.LogAttrs(context.Background(), slog.LevelDebug, msg, attrs...)
}
