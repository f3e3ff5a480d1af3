// Package wlog configures the process-wide structured logger. The teacher
// has no equivalent (it writes straight to stdout/stderr via fmt), but
// SPEC_FULL.md's --log-level flag needs a leveled logger, so this package
// adopts log/slog — the standard library's structured logging package:
// the root command's RunE parses the flag once and installs the result
// as the default logger for the whole process.
package wlog

import (
	"fmt"
	"log/slog"
	"os"
)

// ParseLevel maps the --log-level flag's accepted values to a slog.Level.
// Unrecognized values are reported as a usage error by the caller.
func ParseLevel(raw string) (slog.Level, error) {
	switch raw {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q (want debug, info, warn, or error)", raw)
	}
}

// Init installs a text handler writing to stderr at the given level as
// the process-wide default logger. stdout stays reserved for a
// container's own output (attach/exec pass it through directly).
func Init(level slog.Level) {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
