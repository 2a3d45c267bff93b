package store

import (
	"context"
	"sync"

	"github.com/go-arrower/entitystore/alog"
	"github.com/go-arrower/entitystore/generator"
)

// Singleton builds a Store on the first call to Get and returns the same Store ever after.
// Concurrent first calls block until the one build has finished.
type Singleton struct {
	once  sync.Once
	build func() *Store
	store *Store
}

func NewSingleton(build func() *Store) *Singleton {
	return &Singleton{
		once:  sync.Once{},
		build: build,
		store: nil,
	}
}

func (s *Singleton) Get() *Store {
	s.once.Do(func() {
		s.store = s.build()
	})

	return s.store
}

var instance = NewSingleton(func() *Store { //nolint:gochecknoglobals // process-wide store
	return New(context.Background(), generator.New(), WithLogger(alog.New()))
})

// Instance returns the process-wide Store, seeded with generated data on the first call.
// Prefer New and pass the Store to the components depending on it.
func Instance() *Store {
	return instance.Get()
}
