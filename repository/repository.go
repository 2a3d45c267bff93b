package repository

import (
	"context"
	"errors"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// Identifiable is implemented by every entity a Repository can hold.
// The identity decides whether two values are the same entity,
// independent of their other fields.
type Identifiable[ID comparable] interface {
	Identity() ID
}

// Repository is the set of methods offered by the generic MemoryRepository.
// The collection is ordered: entities keep their insertion position,
// also when they are replaced by Save or Update.
type Repository[E Identifiable[ID], ID comparable] interface { //nolint:interfacebloat // showcase of all methods that are possible
	Create(ctx context.Context, entity E) error
	Update(ctx context.Context, entity E) error
	Save(ctx context.Context, entity E) error
	SaveAll(ctx context.Context, entities []E) error

	Delete(ctx context.Context, entity E) error
	DeleteByID(ctx context.Context, id ID) error
	Clear(ctx context.Context) error

	FindByID(ctx context.Context, id ID) (E, error)
	FindBy(ctx context.Context, match func(E) bool) ([]E, error)
	All(ctx context.Context) ([]E, error)
	Exists(ctx context.Context, id ID) (bool, error)
	Count(ctx context.Context) (int, error)
}
