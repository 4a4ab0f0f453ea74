// Package observability holds the logger and the process-wide metrics.
package observability

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds a logger writing to stderr. format "console" produces human readable
// output; anything else produces JSON. Unknown levels fall back to info.
func NewLogger(level, format string) zerolog.Logger {
	return newLogger(os.Stderr, level, format)
}

func newLogger(out io.Writer, level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if strings.EqualFold(format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}
