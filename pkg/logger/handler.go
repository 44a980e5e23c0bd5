package logger

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors/errbase"
)

type (
	handleFunc func(context.Context, slog.Record) error
	middleware func(handleFunc) handleFunc
)

// chainHandler runs records through middlewares before the wrapped handler.
type chainHandler struct {
	h           slog.Handler
	middlewares []middleware
}

func newChainHandler(h slog.Handler, middlewares ...middleware) *chainHandler {
	return &chainHandler{h: h, middlewares: middlewares}
}

func (c *chainHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return c.h.Enabled(ctx, level)
}

func (c *chainHandler) Handle(ctx context.Context, rec slog.Record) error {
	next := c.h.Handle
	for i := len(c.middlewares) - 1; i >= 0; i-- {
		next = c.middlewares[i](next)
	}
	return next(ctx, rec)
}

func (c *chainHandler) WithGroup(group string) slog.Handler {
	return &chainHandler{h: c.h.WithGroup(group), middlewares: c.middlewares}
}

func (c *chainHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &chainHandler{h: c.h.WithAttrs(attrs), middlewares: c.middlewares}
}

// middlewareErrorVerbose expands the error attribute with the cockroachdb %+v form and its stack.
func middlewareErrorVerbose() middleware {
	return func(next handleFunc) handleFunc {
		return func(ctx context.Context, rec slog.Record) error {
			var extra []slog.Attr
			rec.Attrs(func(attr slog.Attr) bool {
				if attr.Key != ErrorKey {
					return true
				}
				if err, ok := attr.Value.Any().(error); ok && err != nil {
					extra = append(extra, slog.String(ErrorVerboseKey, fmt.Sprintf("%+v", err)))
					if st, ok := err.(errbase.StackTraceProvider); ok {
						extra = append(extra, slog.Any(StackTraceKey, traceLines(st.StackTrace())))
					}
				}
				return false
			})
			rec.AddAttrs(extra...)
			return next(ctx, rec)
		}
	}
}

func traceLines(frames errbase.StackTrace) []string {
	lines := make([]string, 0, len(frames))
	skipping := true
	for i := len(frames) - 1; i >= 0; i-- {
		pc := uintptr(frames[i]) - 1
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			lines = append(lines, "unknown")
			skipping = false
			continue
		}
		name := fn.Name()
		if skipping && strings.HasPrefix(name, "runtime.") {
			continue
		}
		skipping = false
		file, line := fn.FileLine(pc)
		lines = append(lines, fmt.Sprintf("%s %s:%d", name, file, line))
	}
	return lines
}

func chainReplacers(replacers ...func([]string, slog.Attr) slog.Attr) func([]string, slog.Attr) slog.Attr {
	return func(groups []string, attr slog.Attr) slog.Attr {
		for _, r := range replacers {
			if r != nil {
				attr = r(groups, attr)
			}
		}
		return attr
	}
}

func levelAttrReplacer(groups []string, attr slog.Attr) slog.Attr {
	if len(groups) != 0 || attr.Key != LevelKey {
		return attr
	}
	l, ok := attr.Value.Any().(slog.Level)
	if !ok || l < LevelCritical {
		return attr
	}
	name, base := "FATAL", LevelFatal
	switch {
	case l < LevelPanic:
		name, base = "CRITICAL", LevelCritical
	case l < LevelFatal:
		name, base = "PANIC", LevelPanic
	}
	if l != base {
		name = fmt.Sprintf("%s%+d", name, l-base)
	}
	return slog.String(attr.Key, name)
}
