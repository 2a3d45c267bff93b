package entitystore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"

	"github.com/go-arrower/entitystore/alog"
	"github.com/go-arrower/entitystore/generator"
	"github.com/go-arrower/entitystore/store"
)

var ErrMissingDependency = errors.New("missing dependency")

// Container holds the dependencies of an application using the store.
// Pass it, or single fields of it, to the code that needs them
// instead of reaching for store.Instance.
type Container struct {
	Logger         *slog.Logger
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
	// MetricReader allows to read the store's metrics on demand, e.g. for Status.
	MetricReader *metric.ManualReader

	Config *Config
	Store  *store.Store
}

func (c *Container) EnsureAllDependenciesPresent() error {
	if c.Config == nil {
		return fmt.Errorf("%w: global config not found", ErrMissingDependency)
	}

	if c.Logger == nil {
		return fmt.Errorf("%w: logger not found", ErrMissingDependency)
	}

	if c.Store == nil {
		return fmt.Errorf("%w: store not found", ErrMissingDependency)
	}

	return nil
}

// InitialiseDependencies builds a Container from conf.
// Logs are written to logOutput, or os.Stderr if it is nil.
// The returned function shuts the observability providers down.
func InitialiseDependencies(
	ctx context.Context,
	conf *Config,
	logOutput io.Writer,
) (*Container, func(ctx context.Context) error, error) {
	if conf == nil {
		return nil, nil, fmt.Errorf("%w: global config not found", ErrMissingDependency)
	}

	if err := conf.Seed.validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	container := &Container{ //nolint:exhaustruct
		Config: conf,
	}

	{ // logging
		level, err := alog.ParseLevel(conf.Log.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("could not initialise logger: %w", err)
		}

		if logOutput == nil {
			logOutput = os.Stderr
		}

		opts := &slog.HandlerOptions{
			Level:       alog.LevelDebug,
			ReplaceAttr: alog.MapLogLevelsToName,
		}

		var handler slog.Handler = slog.NewJSONHandler(logOutput, opts)
		if conf.Environment == LocalEnv || conf.Environment == TestEnv {
			handler = slog.NewTextHandler(logOutput, opts)
		}

		container.Logger = alog.New(alog.WithLevel(level), alog.WithHandler(handler)).
			With(slog.String("application", conf.ApplicationName))
	}

	{ // observability
		resource := resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(conf.ApplicationName),
			attribute.String("environment", string(conf.Environment)),
		)

		sampler := trace.ParentBased(trace.TraceIDRatioBased(0.6))
		if conf.Environment == LocalEnv || conf.Environment == TestEnv {
			sampler = trace.AlwaysSample()
		}

		opts := []trace.TracerProviderOption{
			trace.WithResource(resource),
			trace.WithSampler(sampler),
		}

		if conf.Trace.Endpoint != "" {
			exporterOpts := []otlptracegrpc.Option{
				otlptracegrpc.WithEndpoint(conf.Trace.Endpoint),
			}
			if conf.Trace.Insecure {
				exporterOpts = append(exporterOpts, otlptracegrpc.WithInsecure())
			}

			traceExporter, err := otlptracegrpc.New(ctx, exporterOpts...)
			if err != nil {
				return nil, nil, fmt.Errorf("could not connect to trace exporter: %w", err)
			}

			opts = append(opts, trace.WithBatcher(traceExporter))
		}

		container.TracerProvider = trace.NewTracerProvider(opts...)

		container.MetricReader = metric.NewManualReader()
		container.MeterProvider = metric.NewMeterProvider(
			metric.WithResource(resource),
			metric.WithReader(container.MetricReader),
		)
	}

	{ // store
		gen := generator.New(
			generator.WithSeed(conf.Seed.Random),
			generator.WithCounts(generator.Counts{
				Posts:        conf.Seed.Posts,
				News:         conf.Seed.News,
				ForumThreads: conf.Seed.ForumThreads,
			}),
		)

		opts := []store.Option{
			store.WithLogger(container.Logger),
			store.WithTracerProvider(container.TracerProvider),
			store.WithMeterProvider(container.MeterProvider),
			store.WithUserCount(conf.Seed.Users),
		}
		if conf.Store.Validate {
			opts = append(opts, store.WithValidation())
		}

		container.Store = store.New(ctx, gen, opts...)
	}

	shutdown := func(ctx context.Context) error {
		return errors.Join(
			container.TracerProvider.Shutdown(ctx),
			container.MeterProvider.Shutdown(ctx),
		)
	}

	return container, shutdown, nil
}
