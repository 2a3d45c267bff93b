package repository_test

import (
	"context"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
)

var (
	ctx           = context.Background()
	defaultEntity = testEntity()
)

func testEntity() Entity {
	return Entity{
		ID:   EntityID(uuid.New().String()),
		Name: gofakeit.Name(),
	}
}

type (
	EntityID string
	Entity   struct {
		ID   EntityID
		Name string
	}
)

func (e Entity) Identity() EntityID { return e.ID }

// Tagged holds a slice, so copies of it share memory unless cloned.
type Tagged struct {
	ID   EntityID
	Tags []string
}

func (t Tagged) Identity() EntityID { return t.ID }

func (t Tagged) clone() Tagged {
	t.Tags = append([]string(nil), t.Tags...)
	return t
}

