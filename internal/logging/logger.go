// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// ParseLevel maps a config level name to a slog level. Unknown names give info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewHandler returns a tint handler writing to w. Verbose forces debug
// level and adds source locations.
func NewHandler(w io.Writer, level string, verbose bool) slog.Handler {
	opts := &tint.Options{
		Level:      ParseLevel(level),
		TimeFormat: time.Kitchen,
		NoColor:    !isTerminal(w),
	}
	if verbose {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}
	return tint.NewHandler(w, opts)
}

// InitLogger installs the default logger on stderr, keeping stdout free
// for reports.
func InitLogger(level string, verbose bool) {
	slog.SetDefault(slog.New(NewHandler(os.Stderr, level, verbose)))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
