package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type ctxKey struct{}

// Options selects the level and encoding of a logger.
type Options struct {
	// Level is a zerolog level name; unknown or empty names mean info.
	Level string
	// JSON writes one JSON object per line instead of the console format.
	JSON bool
	// Out defaults to stderr so stdout stays free for command output.
	Out io.Writer
}

// New builds a logger from opts.
func New(opts Options) zerolog.Logger {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	if !opts.JSON {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).
		Level(ParseLevel(opts.Level)).
		With().
		Timestamp().
		Caller().
		Logger()
}

// Default is the console logger at info on stderr.
func Default() zerolog.Logger {
	return New(Options{})
}

// NewWithWriter writes JSON lines to w at every level. Tests use it to
// inspect fields.
func NewWithWriter(w io.Writer) zerolog.Logger {
	return New(Options{Level: "trace", JSON: true, Out: w})
}

// ParseLevel maps a level name to a zerolog level.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// WithContext stores l on ctx.
func WithContext(ctx context.Context, l zerolog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger stored by WithContext, or Default.
func FromContext(ctx context.Context) zerolog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(zerolog.Logger); ok {
		return l
	}
	return Default()
}

// WithFields returns a child logger carrying fields.
func WithFields(l zerolog.Logger, fields map[string]any) zerolog.Logger {
	return l.With().Fields(fields).Logger()
}
