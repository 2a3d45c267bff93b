package generator_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-arrower/entitystore/entity"
	"github.com/go-arrower/entitystore/generator"
)

var now = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

func TestGenerator_GenerateUsers(t *testing.T) {
	t.Parallel()

	t.Run("count", func(t *testing.T) {
		t.Parallel()

		g := generator.New(generator.WithNow(now))

		users, ids := g.GenerateUsers(36)
		assert.Len(t, users, 36)
		require.Len(t, ids, 36)

		for i, u := range users {
			assert.Equal(t, u.ID, ids[i], "ids are in the same order as users")
			assert.NotEqual(t, entity.ID{}, u.ID)
			assert.NotEmpty(t, u.UserName)
			assert.False(t, u.CreateDate.After(now))
		}
	})

	t.Run("unique ids", func(t *testing.T) {
		t.Parallel()

		_, ids := generator.New().GenerateUsers(200)

		seen := map[entity.ID]struct{}{}
		for _, id := range ids {
			seen[id] = struct{}{}
		}

		assert.Len(t, seen, 200)
	})

	t.Run("zero", func(t *testing.T) {
		t.Parallel()

		users, ids := generator.New().GenerateUsers(0)
		assert.NotNil(t, users)
		assert.Empty(t, users)
		assert.Empty(t, ids)
	})
}

func TestGenerator_GeneratePosts(t *testing.T) {
	t.Parallel()

	t.Run("reference users", func(t *testing.T) {
		t.Parallel()

		g := generator.New(generator.WithNow(now))
		_, ids := g.GenerateUsers(5)

		posts := g.GeneratePosts(ids)
		assert.Len(t, posts, 100)

		for _, p := range posts {
			assert.Contains(t, ids, p.CreatedByID)
			assert.NotEmpty(t, p.Body)
			assert.False(t, p.CreateDate.After(now))
			assert.False(t, p.CreateDate.Before(now.AddDate(-1, 0, -1)))
		}
	})

	t.Run("custom count", func(t *testing.T) {
		t.Parallel()

		g := generator.New(generator.WithCounts(generator.Counts{Posts: 7}))
		_, ids := g.GenerateUsers(1)

		assert.Len(t, g.GeneratePosts(ids), 7)
	})

	t.Run("no users", func(t *testing.T) {
		t.Parallel()

		posts := generator.New().GeneratePosts(nil)
		assert.NotNil(t, posts)
		assert.Empty(t, posts)
	})
}

func TestGenerator_GenerateNews(t *testing.T) {
	t.Parallel()

	g := generator.New(generator.WithNow(now))
	_, ids := g.GenerateUsers(3)

	news := g.GenerateNews(ids)
	assert.Len(t, news, 100)

	for _, n := range news {
		assert.Contains(t, ids, n.CreatedByID)
		assert.NotEmpty(t, n.Title)
		assert.False(t, n.CreateDate.IsZero())
	}

	assert.Empty(t, g.GenerateNews([]entity.ID{}))
}

func TestGenerator_GenerateForumThreads(t *testing.T) {
	t.Parallel()

	t.Run("spread posts over threads", func(t *testing.T) {
		t.Parallel()

		g := generator.New(generator.WithCounts(generator.Counts{Posts: 25, ForumThreads: 10}))
		_, ids := g.GenerateUsers(4)
		posts := g.GeneratePosts(ids)

		threads := g.GenerateForumThreads(ids, posts)
		require.Len(t, threads, 10)

		total := 0
		for _, th := range threads {
			assert.Contains(t, ids, th.CreatedByID)
			total += len(th.PostIDs)
		}

		assert.Equal(t, 25, total)
		assert.Equal(t, []entity.ID{posts[0].ID, posts[10].ID, posts[20].ID}, threads[0].PostIDs)
		assert.Len(t, threads[9].PostIDs, 2)
	})

	t.Run("without threads", func(t *testing.T) {
		t.Parallel()

		g := generator.New(generator.WithCounts(generator.Counts{}))
		_, ids := g.GenerateUsers(1)

		assert.Empty(t, g.GenerateForumThreads(ids, nil))
	})
}

func TestWithSeed(t *testing.T) {
	t.Parallel()

	g0 := generator.New(generator.WithSeed(1337), generator.WithNow(now))
	g1 := generator.New(generator.WithSeed(1337), generator.WithNow(now))

	u0, ids0 := g0.GenerateUsers(10)
	u1, ids1 := g1.GenerateUsers(10)

	assert.Equal(t, u0, u1)
	assert.Equal(t, g0.GenerateNews(ids0), g1.GenerateNews(ids1))

	other, _ := generator.New(generator.WithSeed(42), generator.WithNow(now)).GenerateUsers(10)
	assert.NotEqual(t, u0, other)
}

func TestGenerator_NegativeCounts(t *testing.T) {
	t.Parallel()

	g := generator.New(generator.WithCounts(generator.Counts{Posts: -1, News: -5, ForumThreads: -2}))
	ids := []entity.ID{entity.NewID()}

	assert.NotPanics(t, func() {
		users, userIDs := g.GenerateUsers(-3)
		assert.Empty(t, users)
		assert.Empty(t, userIDs)

		posts := g.GeneratePosts(ids)
		assert.NotNil(t, posts)
		assert.Empty(t, posts)

		news := g.GenerateNews(ids)
		assert.NotNil(t, news)
		assert.Empty(t, news)

		assert.Empty(t, g.GenerateForumThreads(ids, posts))
	})
}
