package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/go-arrower/entitystore/alog"
	"github.com/go-arrower/entitystore/entity"
	"github.com/go-arrower/entitystore/repository"
)

// All returns a snapshot of all entities of E's kind, in collection order.
// Changing the returned slice does not change the store.
func All[E entity.Entity](ctx context.Context, s *Store) ([]E, error) {
	ctx, span := s.start(ctx, "all", kindOf[E]())
	defer span.End()

	repo, err := collection[E](s)
	if err != nil {
		return nil, fail(span, err)
	}

	all, err := repo.All(ctx)
	if err != nil {
		return nil, fail(span, err)
	}

	return all, nil
}

// Get returns the first entity with the given id.
// If there is none, it returns false and no error.
func Get[E entity.Entity](ctx context.Context, s *Store, id entity.ID) (E, bool, error) { //nolint:ireturn // valid use of generics
	ctx, span := s.start(ctx, "get", kindOf[E]())
	defer span.End()

	span.SetAttributes(attribute.String("id", id.String()))

	repo, err := collection[E](s)
	if err != nil {
		return *new(E), false, fail(span, err)
	}

	e, err := repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return *new(E), false, nil
	}

	if err != nil {
		return *new(E), false, fail(span, err)
	}

	return e, true, nil
}

// Save replaces the entity with the same ID in place, or appends e if there is none.
func Save[E entity.Entity](ctx context.Context, s *Store, e E) error {
	ctx, span := s.start(ctx, "save", e.Kind())
	defer span.End()

	span.SetAttributes(attribute.String("id", e.Identity().String()))

	repo, err := collection[E](s)
	if err != nil {
		return fail(span, err)
	}

	if err = s.check(e); err != nil {
		return fail(span, err)
	}

	if err = repo.Save(ctx, e); err != nil {
		return fail(span, fmt.Errorf("could not save %s: %w", e.Kind(), err))
	}

	s.logger.LogAttrs(ctx, alog.LevelDebug, "saved entity",
		slog.String("kind", e.Kind().String()),
		slog.String("id", e.Identity().String()),
	)

	return nil
}

// Create appends e and fails with repository.ErrAlreadyExists,
// if an entity with the same ID is present already.
func Create[E entity.Entity](ctx context.Context, s *Store, e E) error {
	ctx, span := s.start(ctx, "create", e.Kind())
	defer span.End()

	span.SetAttributes(attribute.String("id", e.Identity().String()))

	repo, err := collection[E](s)
	if err != nil {
		return fail(span, err)
	}

	if err = s.check(e); err != nil {
		return fail(span, err)
	}

	if err = repo.Create(ctx, e); err != nil {
		return fail(span, fmt.Errorf("could not create %s: %w", e.Kind(), err))
	}

	s.logger.LogAttrs(ctx, alog.LevelDebug, "created entity",
		slog.String("kind", e.Kind().String()),
		slog.String("id", e.Identity().String()),
	)

	return nil
}

// Delete removes the first entity with the same ID as e.
// Deleting an entity that is not in the store is not an error.
func Delete[E entity.Entity](ctx context.Context, s *Store, e E) error {
	ctx, span := s.start(ctx, "delete", e.Kind())
	defer span.End()

	span.SetAttributes(attribute.String("id", e.Identity().String()))

	repo, err := collection[E](s)
	if err != nil {
		return fail(span, err)
	}

	if err = repo.Delete(ctx, e); err != nil {
		return fail(span, fmt.Errorf("could not delete %s: %w", e.Kind(), err))
	}

	s.logger.LogAttrs(ctx, alog.LevelDebug, "deleted entity",
		slog.String("kind", e.Kind().String()),
		slog.String("id", e.Identity().String()),
	)

	return nil
}
