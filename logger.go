package typeset

import (
	"log/slog"

	"github.com/gogpu/typeset/internal/logging"
)

// SetLogger configures the logger for typeset and all its sub-packages.
// By default, typeset produces no log output. Call SetLogger to enable
// logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by typeset:
//   - [slog.LevelDebug]: layout statistics, font loading, cache clears
//   - [slog.LevelWarn]: non-fatal issues (bidi fallback, unreadable system
//     fonts, runes no face covers)
//
// Example:
//
//	// Enable debug-level logging for full diagnostics:
//	typeset.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// Logger returns the current logger used by typeset.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return logging.L()
}
