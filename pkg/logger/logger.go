// nolint: sloglint
package logger

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"
)

// Keys for log attributes.
const (
	TimeKey         = slog.TimeKey
	LevelKey        = slog.LevelKey
	MessageKey      = slog.MessageKey
	SourceKey       = slog.SourceKey
	ErrorKey        = "error"
	ErrorVerboseKey = "error_verbose"
	StackTraceKey   = "stack_trace"
)

// Custom levels above ERROR.
const (
	LevelCritical = slog.Level(12)
	LevelPanic    = slog.Level(14)
	LevelFatal    = slog.Level(16)
)

var (
	lvl = new(slog.LevelVar)

	logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:       lvl,
		ReplaceAttr: levelAttrReplacer,
	}))
)

func init() {
	lvl.Set(slog.LevelDebug)
	slog.SetDefault(logger)
}

// Config is the logger configuration.
type Config struct {
	// Output is the logger output format: TEXT (default), JSON or GCP.
	Output string `mapstructure:"output"`

	// Debug enables DEBUG level, source locations and verbose errors.
	Debug bool `mapstructure:"debug"`
}

// Init replaces the global logger (and slog default) according to cfg.
func Init(cfg Config) error {
	opts := &slog.HandlerOptions{
		Level:       lvl,
		ReplaceAttr: chainReplacers(levelAttrReplacer),
	}
	var middlewares []middleware

	lvl.Set(slog.LevelInfo)
	if cfg.Debug {
		lvl.Set(slog.LevelDebug)
		opts.AddSource = true
		middlewares = append(middlewares, middlewareErrorVerbose())
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Output) {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	case "gcp":
		handler = newGCPHandler(opts)
	default:
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger = slog.New(newChainHandler(handler, middlewares...))
	slog.SetDefault(logger)
	return nil
}

// SetLevel sets the minimum reporting level and returns the previous one.
func SetLevel(level slog.Level) (old slog.Level) {
	old = lvl.Level()
	lvl.Set(level)
	return old
}

// With returns a Logger that includes the given attributes in each output operation.
func With(args ...any) *slog.Logger {
	return logger.With(args...)
}

func Debug(msg string, args ...any) {
	emit(context.Background(), logger, slog.LevelDebug, msg, args...)
}

func Info(msg string, args ...any) {
	emit(context.Background(), logger, slog.LevelInfo, msg, args...)
}

func Warn(msg string, args ...any) {
	emit(context.Background(), logger, slog.LevelWarn, msg, args...)
}

func Error(msg string, args ...any) {
	emit(context.Background(), logger, slog.LevelError, msg, args...)
}

// Panic logs at [LevelPanic] and then panics.
func Panic(msg string, args ...any) {
	emit(context.Background(), logger, LevelPanic, msg, args...)
	panic(msg)
}

// Fatal logs at [LevelFatal] followed by os.Exit(1).
func Fatal(msg string, args ...any) {
	emit(context.Background(), logger, LevelFatal, msg, args...)
	os.Exit(1)
}

// LogAttrs emits a record with the context logger using only Attrs.
func LogAttrs(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	l := FromContext(ctx)
	if !l.Enabled(ctx, level) {
		return
	}
	r := slog.NewRecord(time.Now(), level, msg, callerPC())
	r.AddAttrs(attrs...)
	_ = l.Handler().Handle(ctx, r)
}

// emit must be called directly by an exported function, it skips a fixed number of frames for the source location.
func emit(ctx context.Context, l *slog.Logger, level slog.Level, msg string, args ...any) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.Enabled(ctx, level) {
		return
	}
	r := slog.NewRecord(time.Now(), level, msg, callerPC())
	r.Add(args...)
	_ = l.Handler().Handle(ctx, r)
}

// callerPC skips [runtime.Callers, callerPC, emit/LogAttrs, exported caller].
func callerPC() uintptr {
	var pcs [1]uintptr
	runtime.Callers(4, pcs[:])
	return pcs[0]
}
