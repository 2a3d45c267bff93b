package entitystore_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-arrower/entitystore"
	"github.com/go-arrower/entitystore/entity"
	"github.com/go-arrower/entitystore/store"
)

var ctx = context.Background()

func testConfig() *entitystore.Config {
	return &entitystore.Config{
		ApplicationName: "entitystore-test",
		Environment:     entitystore.TestEnv,
		Log:             entitystore.Log{Level: "store:info"},
		Seed: entitystore.Seed{
			Random:       1337,
			Users:        4,
			Posts:        12,
			News:         6,
			ForumThreads: 3,
		},
		Store: entitystore.Store{Validate: true},
	}
}

func TestInitialiseDependencies(t *testing.T) {
	t.Parallel()

	t.Run("seed from config", func(t *testing.T) {
		t.Parallel()

		buf := &bytes.Buffer{}

		di, shutdown, err := entitystore.InitialiseDependencies(ctx, testConfig(), buf)
		require.NoError(t, err)
		assert.NoError(t, di.EnsureAllDependenciesPresent())

		t.Cleanup(func() { assert.NoError(t, shutdown(ctx)) })

		expected := map[entity.Kind]int{
			entity.KindUser:        4,
			entity.KindPost:        12,
			entity.KindNews:        6,
			entity.KindForumThread: 3,
		}
		for kind, n := range expected {
			c, err := di.Store.Count(ctx, kind)
			assert.NoError(t, err)
			assert.Equal(t, n, c, kind.String())
		}

		assert.Contains(t, buf.String(), "store initialised")
		assert.Contains(t, buf.String(), "application=entitystore-test")
	})

	t.Run("validation from config", func(t *testing.T) {
		t.Parallel()

		di, shutdown, err := entitystore.InitialiseDependencies(ctx, testConfig(), &bytes.Buffer{})
		require.NoError(t, err)

		t.Cleanup(func() { assert.NoError(t, shutdown(ctx)) })

		err = store.Save(ctx, di.Store, entity.User{ID: entity.NewID()})
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})

	t.Run("reproducible seed", func(t *testing.T) {
		t.Parallel()

		di0, shutdown0, err := entitystore.InitialiseDependencies(ctx, testConfig(), &bytes.Buffer{})
		require.NoError(t, err)
		di1, shutdown1, err := entitystore.InitialiseDependencies(ctx, testConfig(), &bytes.Buffer{})
		require.NoError(t, err)

		t.Cleanup(func() {
			assert.NoError(t, shutdown0(ctx))
			assert.NoError(t, shutdown1(ctx))
		})

		users0, _ := store.All[entity.User](ctx, di0.Store)
		users1, _ := store.All[entity.User](ctx, di1.Store)
		assert.Equal(t, users0[0].UserName, users1[0].UserName)
		assert.Equal(t, users0[0].ID, users1[0].ID)
	})

	t.Run("trace exporter", func(t *testing.T) {
		t.Parallel()

		conf := testConfig()
		conf.Trace.Endpoint = "localhost:4317"
		conf.Trace.Insecure = true

		di, shutdown, err := entitystore.InitialiseDependencies(ctx, conf, &bytes.Buffer{})
		require.NoError(t, err)
		assert.NotNil(t, di.TracerProvider)

		c, err := di.Store.Count(ctx, entity.KindUser)
		assert.NoError(t, err)
		assert.Equal(t, 4, c)

		// no collector is listening, so the final export may fail
		shutdownCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
		defer cancel()

		_ = shutdown(shutdownCtx)
	})

	t.Run("missing config", func(t *testing.T) {
		t.Parallel()

		_, _, err := entitystore.InitialiseDependencies(ctx, nil, nil)
		assert.ErrorIs(t, err, entitystore.ErrMissingDependency)
	})

	t.Run("negative seed count", func(t *testing.T) {
		t.Parallel()

		conf := testConfig()
		conf.Seed.Posts = -1

		assert.NotPanics(t, func() {
			_, _, err := entitystore.InitialiseDependencies(ctx, conf, &bytes.Buffer{})
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "negative")
		})
	})

	t.Run("invalid log level", func(t *testing.T) {
		t.Parallel()

		conf := testConfig()
		conf.Log.Level = "loud"

		_, _, err := entitystore.InitialiseDependencies(ctx, conf, &bytes.Buffer{})
		assert.Error(t, err)
	})
}

func TestContainer_EnsureAllDependenciesPresent(t *testing.T) {
	t.Parallel()

	di := &entitystore.Container{}
	assert.ErrorIs(t, di.EnsureAllDependenciesPresent(), entitystore.ErrMissingDependency)

	di.Config = testConfig()
	assert.ErrorIs(t, di.EnsureAllDependenciesPresent(), entitystore.ErrMissingDependency)
}

func TestGetStatus(t *testing.T) {
	t.Parallel()

	di, shutdown, err := entitystore.InitialiseDependencies(ctx, testConfig(), &bytes.Buffer{})
	require.NoError(t, err)

	t.Cleanup(func() { assert.NoError(t, shutdown(ctx)) })

	_, _ = store.All[entity.News](ctx, di.Store)

	status, err := entitystore.GetStatus(ctx, di, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	assert.Equal(t, "entitystore-test", status.ApplicationName)
	assert.Equal(t, entitystore.TestEnv, status.Environment)
	assert.Equal(t, "1m0s", status.Uptime)
	assert.Equal(t, map[string]int{"User": 4, "Post": 12, "News": 6, "ForumThread": 3}, status.Entities)
	assert.Equal(t, int64(1), status.Operations["all/News"])
	assert.Equal(t, int64(1), status.Operations["count/User"])
}
