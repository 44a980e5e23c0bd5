package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/gaze-network/commission-ledger/pkg/logger/slogx"
)

type loggerKey struct{}

// FromContext returns the logger attached to ctx, or a child of the global logger.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
			return l
		}
	}
	return logger.With()
}

// NewContext returns a copy of ctx carrying l.
func NewContext(ctx context.Context, l *slog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey{}, l)
}

// WithContext returns a copy of ctx whose logger carries args.
func WithContext(ctx context.Context, args ...any) context.Context {
	return NewContext(ctx, FromContext(ctx).With(args...))
}

func DebugContext(ctx context.Context, msg string, args ...any) {
	emit(ctx, FromContext(ctx), slog.LevelDebug, msg, args...)
}

func InfoContext(ctx context.Context, msg string, args ...any) {
	emit(ctx, FromContext(ctx), slog.LevelInfo, msg, args...)
}

func WarnContext(ctx context.Context, msg string, args ...any) {
	emit(ctx, FromContext(ctx), slog.LevelWarn, msg, args...)
}

// ErrorContext logs at ERROR with err attached under the "error" key.
func ErrorContext(ctx context.Context, msg string, err error, args ...any) {
	emit(ctx, FromContext(ctx), slog.LevelError, msg, append(args, slogx.Error(err))...)
}

func PanicContext(ctx context.Context, msg string, args ...any) {
	emit(ctx, FromContext(ctx), LevelPanic, msg, args...)
	panic(msg)
}

func FatalContext(ctx context.Context, msg string, args ...any) {
	emit(ctx, FromContext(ctx), LevelFatal, msg, args...)
	os.Exit(1)
}
