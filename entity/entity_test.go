package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-arrower/entitystore/entity"
)

func TestClone(t *testing.T) {
	t.Parallel()

	t.Run("forum thread", func(t *testing.T) {
		t.Parallel()

		thread := entity.ForumThread{ID: entity.NewID(), Title: "thread", PostIDs: []entity.ID{entity.NewID(), entity.NewID()}}

		c := entity.Clone(thread)
		assert.Equal(t, thread, c)

		c.PostIDs[0] = entity.NewID()
		assert.NotEqual(t, thread.PostIDs[0], c.PostIDs[0], "post ids are not shared")
	})

	t.Run("nil post ids stay nil", func(t *testing.T) {
		t.Parallel()

		c := entity.Clone(entity.ForumThread{ID: entity.NewID()})
		assert.Nil(t, c.PostIDs)
	})

	t.Run("value entities", func(t *testing.T) {
		t.Parallel()

		user := entity.User{ID: entity.NewID(), UserName: "arrower"}
		assert.Equal(t, user, entity.Clone(user))
	})
}
