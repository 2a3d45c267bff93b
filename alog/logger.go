package alog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-arrower/entitystore/ctx"
)

// Logger interface is a subset of slog.Logger, with the aim to:
//  1. encourage the use of the methods offering context.Context, so that tracing information can be correlated.
//  2. encourage the use of the levels `DEBUG` and `INFO` over others, but without preventing them, see:
//     https://dave.cheney.net/2015/11/05/lets-talk-about-logging
type Logger interface {
	Log(ctx context.Context, level slog.Level, msg string, args ...any)
	LogAttrs(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr)
	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
}

var _ Logger = (*slog.Logger)(nil)

const (
	// LevelInfo is used to see what is going on inside the store.
	LevelInfo = slog.Level(-8)

	// LevelDebug is used by store developers, if you really want to know what is going on.
	LevelDebug = slog.Level(-12)
)

// MapLogLevelsToName replaces the default name of a custom log level with a speaking name.
func MapLogLevelsToName(_ []string, attr slog.Attr) slog.Attr {
	if attr.Key == slog.LevelKey {
		level, _ := attr.Value.Any().(slog.Level)

		levelLabel, exists := getLevelNames()[level]
		if !exists {
			levelLabel = level.String()
		}

		attr.Value = slog.StringValue(levelLabel)
	}

	return attr
}

func getLevelNames() map[slog.Leveler]string {
	return map[slog.Leveler]string{
		LevelInfo:  "STORE:INFO",
		LevelDebug: "STORE:DEBUG",
	}
}

// ParseLevel maps a configured level name to a slog.Level.
// Next to the slog names it accepts "store:info" and "store:debug".
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "store:debug":
		return LevelDebug, nil
	case "store:info":
		return LevelInfo, nil
	}

	var level slog.Level

	err := level.UnmarshalText([]byte(name))
	if err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", name, err)
	}

	return level, nil
}

const ctxAttr ctx.CTXKey = "alog.attr"

// AddAttr adds a single attribute to ctx, which gets logged with every record using this ctx.
func AddAttr(ctx context.Context, attr slog.Attr) context.Context {
	return AddAttrs(ctx, attr)
}

// AddAttrs adds attributes to ctx, which get logged with every record using this ctx.
func AddAttrs(ctx context.Context, newAttrs ...slog.Attr) context.Context {
	attrs := FromContext(ctx)
	attrs = append(attrs, newAttrs...)

	return context.WithValue(ctx, ctxAttr, attrs)
}

// ClearAttrs removes all attributes added via AddAttr or AddAttrs.
func ClearAttrs(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxAttr, []slog.Attr{})
}

// FromContext returns a copy of the attributes stored in ctx.
// It never returns nil.
func FromContext(ctx context.Context) []slog.Attr {
	attrs, ok := ctx.Value(ctxAttr).([]slog.Attr)
	if !ok {
		return []slog.Attr{}
	}

	result := make([]slog.Attr, len(attrs))
	copy(result, attrs)

	return result
}
