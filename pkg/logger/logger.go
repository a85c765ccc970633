package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Options struct {
	Service string
	// Level is a zerolog level name; empty or unknown means info.
	Level string
	// Format selects "console" output; anything else writes JSON lines.
	Format string
	Output io.Writer
}

// Logger writes structured entries. Per-request and per-product fields travel
// in the context as a derived zerolog logger.
type Logger struct {
	root zerolog.Logger
}

func New(opts Options) *Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if strings.EqualFold(strings.TrimSpace(opts.Format), "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano

	root := zerolog.New(out).
		Level(parseLevel(opts.Level)).
		With().
		Timestamp().
		Str("service", opts.Service).
		Logger()
	return &Logger{root: root}
}

// Nop discards everything. Services and tests use it when no logger is wired.
func Nop() *Logger {
	return &Logger{root: zerolog.Nop()}
}

func parseLevel(name string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// from returns the logger stored in ctx by one of the With helpers, or the
// root logger. zerolog.Ctx yields a disabled logger when ctx carries none.
func (l *Logger) from(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if zl := zerolog.Ctx(ctx); zl.GetLevel() != zerolog.Disabled {
			return zl
		}
	}
	return &l.root
}

func (l *Logger) derive(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	child := l.from(ctx).With().Fields(fields).Logger()
	return child.WithContext(ctx)
}

func (l *Logger) WithField(ctx context.Context, key string, value any) context.Context {
	return l.derive(ctx, map[string]any{key: value})
}

func (l *Logger) WithFields(ctx context.Context, fields map[string]any) context.Context {
	return l.derive(ctx, fields)
}

// WithRequest tags every later entry of one HTTP request.
func (l *Logger) WithRequest(ctx context.Context, requestID, method, path string) context.Context {
	return l.derive(ctx, map[string]any{
		"request_id": requestID,
		"method":     method,
		"path":       path,
	})
}

func (l *Logger) WithProduct(ctx context.Context, productID string) context.Context {
	return l.WithField(ctx, "product_id", productID)
}

// Writer feeds the root logger from libraries that print through the log package.
func (l *Logger) Writer() io.Writer {
	return l.root
}

func (l *Logger) Debug(ctx context.Context, msg string) { l.Log(ctx, zerolog.DebugLevel, msg) }

func (l *Logger) Info(ctx context.Context, msg string) { l.Log(ctx, zerolog.InfoLevel, msg) }

func (l *Logger) Warn(ctx context.Context, msg string) { l.Log(ctx, zerolog.WarnLevel, msg) }

func (l *Logger) Error(ctx context.Context, msg string, err error) {
	l.from(ctx).Error().Err(err).Msg(msg)
}

// Log writes msg at a level chosen by the caller, such as a status-dependent
// request line.
func (l *Logger) Log(ctx context.Context, level zerolog.Level, msg string) {
	l.from(ctx).WithLevel(level).Msg(msg)
}
