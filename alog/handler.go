package alog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"go.opentelemetry.io/otel/trace"
)

// LoggerOpt allows to initialise a logger with custom options.
type LoggerOpt func(logger *storeHandler)

// WithHandler adds a slog.Handler to be logged to.
// You can set as many as you want.
func WithHandler(h slog.Handler) LoggerOpt {
	return func(l *storeHandler) {
		l.handlers = append(l.handlers, h)
	}
}

// WithLevel initialises the logger with a starting level.
// To change the level at runtime use Unwrap(logger).SetLevel(LevelInfo).
func WithLevel(level slog.Level) LoggerOpt {
	return func(l *storeHandler) {
		l.level.Store(int64(level))
	}
}

// New returns a production ready logger.
//
// If no options are given it creates a default handler, logging JSON to Stderr.
// Otherwise, use WithHandler to set your own handlers.
func New(opts ...LoggerOpt) *slog.Logger {
	return slog.New(newStoreHandler(opts...))
}

// NewDevelopment returns a logger ready for local development purposes,
// logging human-readable text to w at debug level.
func NewDevelopment(w io.Writer) *slog.Logger {
	return New(
		WithLevel(slog.LevelDebug),
		WithHandler(slog.NewTextHandler(w, getDebugHandlerOptions())),
	)
}

// newStoreHandler does not output anything directly and relies on other slog.Handlers to do so.
// If no handlers are provided via WithHandler, a default JSON handler logs to os.Stderr.
func newStoreHandler(opts ...LoggerOpt) *storeHandler {
	logger := &storeHandler{
		level:    &atomic.Int64{},
		handlers: []slog.Handler{},
	}
	logger.level.Store(int64(slog.LevelInfo))

	for _, opt := range opts {
		opt(logger)
	}

	if len(logger.handlers) == 0 {
		logger.handlers = []slog.Handler{slog.NewJSONHandler(os.Stderr, getDefaultHandlerOptions())}
	}

	return logger
}

// storeHandler fans a record out to all its handlers.
// It adds the trace and span IDs of the active span and the attributes stored in the context.
type storeHandler struct {
	// level is the minimum level for all handlers,
	// the level of individual handlers set via WithHandler is ignored.
	// It is shared between all handlers derived via WithAttrs and WithGroup.
	level *atomic.Int64

	handlers []slog.Handler
}

var (
	_ slog.Handler = (*storeHandler)(nil)
	_ StoreLogger  = (*storeHandler)(nil)
)

func (l *storeHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= l.Level()
}

func (l *storeHandler) Handle(ctx context.Context, record slog.Record) error {
	record = addTraceAndSpanIDsToLogs(trace.SpanFromContext(ctx), record)

	if attrs := FromContext(ctx); len(attrs) > 0 {
		record.AddAttrs(attrs...)
	}

	var retErr error

	for _, h := range l.handlers {
		err := h.Handle(ctx, record.Clone())
		retErr = errors.Join(retErr, err)
	}

	return retErr
}

func (l *storeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(l.handlers))

	for i, h := range l.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}

	return &storeHandler{level: l.level, handlers: handlers}
}

func (l *storeHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(l.handlers))

	for i, h := range l.handlers {
		handlers[i] = h.WithGroup(name)
	}

	return &storeHandler{level: l.level, handlers: handlers}
}

// SetLevel changes the level for all handlers set with WithHandler().
// Even the ones "copied" via any WithX method.
func (l *storeHandler) SetLevel(level slog.Level) {
	l.level.Store(int64(level))
}

func (l *storeHandler) Level() slog.Level {
	return slog.Level(l.level.Load())
}

func (l *storeHandler) NumHandlers() int {
	return len(l.handlers)
}

func addTraceAndSpanIDsToLogs(span trace.Span, record slog.Record) slog.Record {
	sCtx := span.SpanContext()

	if sCtx.HasTraceID() {
		record.AddAttrs(slog.String("traceID", sCtx.TraceID().String()))
	}

	if sCtx.HasSpanID() {
		record.AddAttrs(slog.String("spanID", sCtx.SpanID().String()))
	}

	return record
}

// StoreLogger offers additional control over a logger at run time.
// Unwrap a logger to get access to these features.
type StoreLogger interface {
	SetLevel(level slog.Level)
	Level() slog.Level
	NumHandlers() int
}

// Unwrap unwraps the given logger and returns a StoreLogger.
// In case the logger was not created by this package, it returns nil.
func Unwrap(logger Logger) StoreLogger { //nolint:ireturn // interface required to return a TestLogger and storeHandler
	switch l := logger.(type) {
	case *TestLogger:
		return l
	case *slog.Logger:
		if h, ok := l.Handler().(*storeHandler); ok {
			return h
		}
	}

	return nil
}

func getDefaultHandlerOptions() *slog.HandlerOptions {
	return &slog.HandlerOptions{
		AddSource:   true,
		Level:       LevelDebug, // filtering is done by storeHandler, let everything through
		ReplaceAttr: MapLogLevelsToName,
	}
}

// getDebugHandlerOptions is to keep the log output more readable, by removing not essential keys.
func getDebugHandlerOptions() *slog.HandlerOptions {
	opt := getDefaultHandlerOptions()
	opt.AddSource = false

	return opt
}

// NewNoop returns a logger that discards every record.
// Ideal as dependency in tests.
func NewNoop() *slog.Logger {
	return slog.New(discardHandler{})
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h discardHandler) WithGroup(string) slog.Handler           { return h }
