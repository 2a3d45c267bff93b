package alog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-arrower/entitystore/alog"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("level info as default level", func(t *testing.T) {
		t.Parallel()

		buf := &bytes.Buffer{}
		h := slog.NewTextHandler(buf, nil)

		logger := alog.New(alog.WithHandler(h))

		logger.Log(ctx, alog.LevelInfo, "store info")
		logger.Log(ctx, alog.LevelDebug, "store debug")
		logger.Log(ctx, slog.LevelDebug, "application debug msg")
		assert.Empty(t, buf.String())

		logger.Info("application info msg")
		assert.Contains(t, buf.String(), `msg="application info msg"`)
	})

	t.Run("info is default level", func(t *testing.T) {
		t.Parallel()

		logger := alog.New()
		assert.Equal(t, slog.LevelInfo, alog.Unwrap(logger).Level())
		assert.Equal(t, 1, alog.Unwrap(logger).NumHandlers(), "default handler")
	})

	t.Run("set level", func(t *testing.T) {
		t.Parallel()

		logger := alog.New(alog.WithLevel(slog.LevelDebug))
		assert.Equal(t, slog.LevelDebug, alog.Unwrap(logger).Level())

		logger = alog.New(alog.WithLevel(alog.LevelDebug))
		assert.Equal(t, alog.LevelDebug, alog.Unwrap(logger).Level())
	})

	t.Run("multiple handlers", func(t *testing.T) {
		t.Parallel()

		buf0 := &bytes.Buffer{}
		buf1 := &bytes.Buffer{}

		logger := alog.New(
			alog.WithHandler(slog.NewTextHandler(buf0, nil)),
			alog.WithHandler(slog.NewJSONHandler(buf1, nil)),
		)
		assert.Equal(t, 2, alog.Unwrap(logger).NumHandlers())

		logger.Info(applicationMsg)
		assert.Contains(t, buf0.String(), applicationMsg)
		assert.Contains(t, buf1.String(), `"msg":"application message"`)
	})
}

func TestStoreHandler_SetLevel(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := alog.New(alog.WithHandler(slog.NewTextHandler(buf, nil)))
	grouped := logger.WithGroup("group").With("key", "val")

	alog.Unwrap(logger).SetLevel(alog.LevelDebug)

	grouped.Log(ctx, alog.LevelDebug, applicationMsg)
	assert.Contains(t, buf.String(), applicationMsg, "level is shared with derived loggers")
	assert.Contains(t, buf.String(), "group.key=val")
}

func TestStoreHandler_Handle(t *testing.T) {
	t.Parallel()

	t.Run("context attributes", func(t *testing.T) {
		t.Parallel()

		buf := &bytes.Buffer{}
		logger := alog.New(alog.WithHandler(slog.NewTextHandler(buf, nil)))

		ctx := alog.AddAttr(context.Background(), slog.String("request", "1337"))
		logger.InfoContext(ctx, applicationMsg)

		assert.Contains(t, buf.String(), "request=1337")
	})

	t.Run("no trace ids without span", func(t *testing.T) {
		t.Parallel()

		buf := &bytes.Buffer{}
		logger := alog.New(alog.WithHandler(slog.NewTextHandler(buf, nil)))

		logger.InfoContext(ctx, applicationMsg)

		assert.NotContains(t, buf.String(), "traceID")
		assert.NotContains(t, buf.String(), "spanID")
	})

	t.Run("trace ids of active span", func(t *testing.T) {
		t.Parallel()

		buf := &bytes.Buffer{}
		logger := alog.New(alog.WithHandler(slog.NewTextHandler(buf, nil)))

		ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
			TraceID: trace.TraceID{0x01},
			SpanID:  trace.SpanID{0x02},
		}))
		logger.InfoContext(ctx, applicationMsg)

		assert.Contains(t, buf.String(), "traceID=01000000000000000000000000000000")
		assert.Contains(t, buf.String(), "spanID=0200000000000000")
	})
}

func TestNewDevelopment(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := alog.NewDevelopment(buf)

	logger.Debug(applicationMsg)
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.NotContains(t, buf.String(), "source=", "debug output is kept short")
}

func TestNewNoop(t *testing.T) {
	t.Parallel()

	logger := alog.NewNoop()
	assert.NotPanics(t, func() {
		logger.Error(applicationMsg)
		logger.WithGroup("g").With("k", "v").Info(applicationMsg)
	})
	assert.Nil(t, alog.Unwrap(logger))
}

func TestUnwrap(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, alog.Unwrap(alog.New()))
	assert.NotNil(t, alog.Unwrap(alog.Test(t)))
	assert.Nil(t, alog.Unwrap(slog.Default()))
}
