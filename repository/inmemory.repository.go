package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// Option configures a MemoryRepository.
type Option[E any] func(config *repoConfig[E])

type repoConfig[E any] struct {
	initial []E
	clone   func(E) E
}

// WithEntities seeds a new repository with the given entities, in order.
// Entities sharing an identity collapse into the first position, holding the last value.
func WithEntities[E any](entities ...E) Option[E] {
	return func(config *repoConfig[E]) {
		config.initial = append(config.initial, entities...)
	}
}

// WithCloner sets how entities are copied into and out of the repository.
// Use it for entities holding slices, maps, or pointers, so callers never share memory with the repository.
func WithCloner[E any](clone func(E) E) Option[E] {
	return func(config *repoConfig[E]) {
		config.clone = clone
	}
}

// NewMemoryRepository returns an implementation of Repository for the given entity E.
// If your repository needs additional methods, embed it into your own type.
//
// Warning: the consistency of MemoryRepository is not on par with ACID guarantees of a RDBMS.
// Every method is safe for concurrent use, but there are no transactions across calls.
func NewMemoryRepository[E Identifiable[ID], ID comparable](opts ...Option[E]) *MemoryRepository[E, ID] {
	config := repoConfig[E]{
		clone: func(e E) E { return e },
	}

	for _, opt := range opts {
		opt(&config)
	}

	repo := &MemoryRepository[E, ID]{
		RWMutex: &sync.RWMutex{},
		Data:    make([]E, 0, len(config.initial)),
		clone:   config.clone,
	}

	for _, e := range config.initial {
		repo.save(e)
	}

	return repo
}

// MemoryRepository implements Repository on an ordered slice.
type MemoryRepository[E Identifiable[ID], ID comparable] struct {
	// RWMutex is embedded, so that repositories who extend MemoryRepository can lock the same mutex as other methods.
	*sync.RWMutex

	// Data is the repository's collection. It is exposed in case you're extending the repository.
	// PREVENT using and accessing Data directly, go through the repository methods.
	// If you write to Data, USE the RWMutex to lock first.
	Data []E

	clone func(E) E
}

// indexOf returns the position of the first entity with the given id or -1.
// The caller has to hold the lock.
func (repo *MemoryRepository[E, ID]) indexOf(id ID) int {
	return slices.IndexFunc(repo.Data, func(e E) bool {
		return e.Identity() == id
	})
}

// save stores a copy of entity. The caller has to hold the lock.
func (repo *MemoryRepository[E, ID]) save(entity E) {
	entity = repo.clone(entity)

	if i := repo.indexOf(entity.Identity()); i >= 0 {
		repo.Data[i] = entity
		return
	}

	repo.Data = append(repo.Data, entity)
}

// Create appends the entity and fails if one with the same identity exists already.
func (repo *MemoryRepository[E, ID]) Create(_ context.Context, entity E) error {
	repo.Lock()
	defer repo.Unlock()

	if repo.indexOf(entity.Identity()) >= 0 {
		return fmt.Errorf("%w: %v", ErrAlreadyExists, entity.Identity())
	}

	repo.Data = append(repo.Data, repo.clone(entity))

	return nil
}

// Update replaces an existing entity in place.
func (repo *MemoryRepository[E, ID]) Update(_ context.Context, entity E) error {
	repo.Lock()
	defer repo.Unlock()

	i := repo.indexOf(entity.Identity())
	if i < 0 {
		return fmt.Errorf("could not update %v: %w", entity.Identity(), ErrNotFound)
	}

	repo.Data[i] = repo.clone(entity)

	return nil
}

// Save replaces the entity with the same identity at its position, or appends it.
func (repo *MemoryRepository[E, ID]) Save(_ context.Context, entity E) error {
	repo.Lock()
	defer repo.Unlock()

	repo.save(entity)

	return nil
}

func (repo *MemoryRepository[E, ID]) SaveAll(_ context.Context, entities []E) error {
	repo.Lock()
	defer repo.Unlock()

	for _, e := range entities {
		repo.save(e)
	}

	return nil
}

// Delete removes the first entity with the same identity.
// Deleting an entity that is not present is not an error.
func (repo *MemoryRepository[E, ID]) Delete(ctx context.Context, entity E) error {
	return repo.DeleteByID(ctx, entity.Identity())
}

func (repo *MemoryRepository[E, ID]) DeleteByID(_ context.Context, id ID) error {
	repo.Lock()
	defer repo.Unlock()

	if i := repo.indexOf(id); i >= 0 {
		repo.Data = slices.Delete(repo.Data, i, i+1)
	}

	return nil
}

func (repo *MemoryRepository[E, ID]) Clear(_ context.Context) error {
	repo.Lock()
	defer repo.Unlock()

	clear(repo.Data)
	repo.Data = repo.Data[:0]

	return nil
}

func (repo *MemoryRepository[E, ID]) FindByID(_ context.Context, id ID) (E, error) { //nolint:ireturn // valid use of generics
	repo.RLock()
	defer repo.RUnlock()

	if i := repo.indexOf(id); i >= 0 {
		return repo.clone(repo.Data[i]), nil
	}

	return *new(E), ErrNotFound
}

// FindBy returns all entities for which match returns true, in collection order.
func (repo *MemoryRepository[E, ID]) FindBy(_ context.Context, match func(E) bool) ([]E, error) {
	repo.RLock()
	defer repo.RUnlock()

	result := []E{}

	for _, e := range repo.Data {
		if match(e) {
			result = append(result, repo.clone(e))
		}
	}

	return result, nil
}

// All returns a copy of the collection in order.
// Changing the returned slice or its entities does not change the repository.
func (repo *MemoryRepository[E, ID]) All(_ context.Context) ([]E, error) {
	repo.RLock()
	defer repo.RUnlock()

	result := make([]E, len(repo.Data))
	for i, e := range repo.Data {
		result[i] = repo.clone(e)
	}

	return result, nil
}

func (repo *MemoryRepository[E, ID]) Exists(_ context.Context, id ID) (bool, error) {
	repo.RLock()
	defer repo.RUnlock()

	return repo.indexOf(id) >= 0, nil
}

func (repo *MemoryRepository[E, ID]) Count(_ context.Context) (int, error) {
	repo.RLock()
	defer repo.RUnlock()

	return len(repo.Data), nil
}
