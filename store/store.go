// Package store holds the entities of the forum application in memory,
// one ordered collection per entity kind.
//
// Construct a Store once with New and pass it to the components that need it.
// Instance offers a lazily initialised, process-wide Store for code that cannot be wired.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/go-arrower/entitystore/alog"
	"github.com/go-arrower/entitystore/entity"
	"github.com/go-arrower/entitystore/repository"
)

const (
	// DefaultUserCount is the number of users generated when seeding a Store.
	DefaultUserCount = 36

	instrumentationName = "github.com/go-arrower/entitystore/store"
)

var (
	// ErrUnsupportedKind is returned for any operation on a kind the Store has no collection for.
	ErrUnsupportedKind = entity.ErrUnsupportedKind

	// ErrInvalidEntity is returned by Save and Create, if validation is enabled and the entity fails it.
	ErrInvalidEntity = errors.New("invalid entity")
)

// SeedGenerator produces the entities a Store starts with.
type SeedGenerator interface {
	GenerateUsers(count int) ([]entity.User, []entity.ID)
	GeneratePosts(userIDs []entity.ID) []entity.Post
	GenerateNews(userIDs []entity.ID) []entity.News
	GenerateForumThreads(userIDs []entity.ID, posts []entity.Post) []entity.ForumThread
}

type config struct {
	logger         *slog.Logger
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	kinds          []entity.Kind
	userCount      int
	validate       bool
}

type Option func(conf *config)

func WithLogger(logger *slog.Logger) Option {
	return func(conf *config) {
		conf.logger = logger
	}
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(conf *config) {
		conf.tracerProvider = tp
	}
}

func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(conf *config) {
		conf.meterProvider = mp
	}
}

// WithKinds registers collections only for the given kinds.
// Operations on any other kind fail with ErrUnsupportedKind.
func WithKinds(kinds ...entity.Kind) Option {
	return func(conf *config) {
		conf.kinds = kinds
	}
}

// WithUserCount sets the number of users requested from the SeedGenerator.
func WithUserCount(count int) Option {
	return func(conf *config) {
		conf.userCount = count
	}
}

// WithValidation checks entities against their `validate` struct tags before Save and Create.
func WithValidation() Option {
	return func(conf *config) {
		conf.validate = true
	}
}

// Store keeps one collection per registered kind.
// The set of collections is fixed at construction,
// each collection guards its own entities, so all operations are safe for concurrent use.
type Store struct {
	collections map[entity.Kind]any // *repository.MemoryRepository[E, entity.ID] of the kind's type

	logger     *slog.Logger
	tracer     trace.Tracer
	operations metric.Int64Counter
	validate   *validator.Validate
}

// New returns a Store seeded by gen. If gen is nil, all collections start empty.
func New(ctx context.Context, gen SeedGenerator, opts ...Option) *Store {
	conf := config{
		logger:         alog.NewNoop(),
		tracerProvider: tracenoop.NewTracerProvider(),
		meterProvider:  metricnoop.NewMeterProvider(),
		kinds:          entity.Kinds(),
		userCount:      DefaultUserCount,
		validate:       false,
	}

	for _, opt := range opts {
		opt(&conf)
	}

	store := &Store{
		collections: make(map[entity.Kind]any, len(conf.kinds)),
		logger:      conf.logger.With(slog.String("component", "store")),
		tracer:      conf.tracerProvider.Tracer(instrumentationName),
		operations:  newOperationsCounter(ctx, conf),
		validate:    nil,
	}

	if conf.validate {
		store.validate = validator.New(validator.WithRequiredStructEnabled())
	}

	ctx, span := store.tracer.Start(ctx, "store.seed")
	defer span.End()

	seed := generateSeed(gen, conf.userCount)

	for _, kind := range conf.kinds {
		switch kind {
		case entity.KindUser:
			store.collections[kind] = newCollection(seed.users)
		case entity.KindPost:
			store.collections[kind] = newCollection(seed.posts)
		case entity.KindNews:
			store.collections[kind] = newCollection(seed.news)
		case entity.KindForumThread:
			store.collections[kind] = newCollection(seed.threads)
		default:
			store.logger.WarnContext(ctx, "ignore unsupported kind", slog.String("kind", kind.String()))
		}
	}

	attrs := []slog.Attr{}
	for _, kind := range store.Kinds() {
		n, _ := store.size(ctx, kind)
		attrs = append(attrs, slog.Int(kind.String(), n))
		span.SetAttributes(attribute.Int("seed."+kind.String(), n))
	}

	store.logger.LogAttrs(ctx, alog.LevelInfo, "store initialised", slog.Attr{Key: "seed", Value: slog.GroupValue(attrs...)})

	return store
}

type seedData struct {
	users   []entity.User
	posts   []entity.Post
	news    []entity.News
	threads []entity.ForumThread
}

func generateSeed(gen SeedGenerator, userCount int) seedData {
	if gen == nil {
		return seedData{}
	}

	users, userIDs := gen.GenerateUsers(userCount)
	posts := gen.GeneratePosts(userIDs)

	return seedData{
		users:   users,
		posts:   posts,
		news:    gen.GenerateNews(userIDs),
		threads: gen.GenerateForumThreads(userIDs, posts),
	}
}

func newCollection[E entity.Entity](seed []E) *repository.MemoryRepository[E, entity.ID] {
	return repository.NewMemoryRepository[E, entity.ID](
		repository.WithCloner(entity.Clone[E]),
		repository.WithEntities(seed...),
	)
}

func newOperationsCounter(ctx context.Context, conf config) metric.Int64Counter { //nolint:ireturn // otel api
	counter, err := conf.meterProvider.Meter(instrumentationName).Int64Counter(
		"entitystore.operations",
		metric.WithDescription("Number of store operations by kind and operation."),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		conf.logger.WarnContext(ctx, "could not create operations counter", slog.String("err", err.Error()))
		counter, _ = metricnoop.Meter{}.Int64Counter("entitystore.operations")
	}

	return counter
}

// Kinds returns the registered kinds in canonical order.
func (s *Store) Kinds() []entity.Kind {
	kinds := []entity.Kind{}

	for _, k := range entity.Kinds() {
		if _, ok := s.collections[k]; ok {
			kinds = append(kinds, k)
		}
	}

	return kinds
}

// Count returns the number of entities of the given kind.
func (s *Store) Count(ctx context.Context, kind entity.Kind) (int, error) {
	ctx, span := s.start(ctx, "count", kind)
	defer span.End()

	n, err := s.size(ctx, kind)
	if err != nil {
		return 0, fail(span, err)
	}

	return n, nil
}

func (s *Store) size(ctx context.Context, kind entity.Kind) (int, error) {
	c, ok := s.collections[kind].(interface {
		Count(ctx context.Context) (int, error)
	})
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
	}

	return c.Count(ctx)
}

// LatestNews returns the count most recent news, newest first.
// News with the same creation date keep their order in the collection.
// If count is larger than the number of news, all news are returned; if it is <= 0, none.
func (s *Store) LatestNews(ctx context.Context, count int) ([]entity.News, error) {
	ctx, span := s.start(ctx, "latest_news", entity.KindNews)
	defer span.End()

	repo, err := collection[entity.News](s)
	if err != nil {
		return nil, fail(span, err)
	}

	if count <= 0 {
		return []entity.News{}, nil
	}

	news, err := repo.All(ctx)
	if err != nil {
		return nil, fail(span, err)
	}

	slices.SortStableFunc(news, func(a, b entity.News) int {
		return b.CreateDate.Compare(a.CreateDate)
	})

	if count < len(news) {
		news = news[:count:count]
	}

	span.SetAttributes(attribute.Int("count", count), attribute.Int("returned", len(news)))

	return news, nil
}

// collection returns the repository of E's kind.
func collection[E entity.Entity](s *Store) (*repository.MemoryRepository[E, entity.ID], error) {
	kind := kindOf[E]()

	repo, ok := s.collections[kind].(*repository.MemoryRepository[E, entity.ID])
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
	}

	return repo, nil
}

func kindOf[E entity.Entity]() entity.Kind {
	var e E
	return e.Kind()
}

// start begins the span of an operation and counts it.
func (s *Store) start(ctx context.Context, operation string, kind entity.Kind) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.String("kind", kind.String()),
	}

	s.operations.Add(ctx, 1, metric.WithAttributes(attrs...))

	return s.tracer.Start(ctx, "store."+operation, trace.WithAttributes(attrs...))
}

func (s *Store) check(e any) error {
	if s.validate == nil {
		return nil
	}

	if err := s.validate.Struct(e); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEntity, err) //nolint:errorlint // hide validator types from callers
	}

	return nil
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	return err
}
