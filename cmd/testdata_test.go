package cmd_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/go-arrower/entitystore"
	"github.com/go-arrower/entitystore/cmd"
)

var ctx = context.Background()

// newTestContainer returns dependencies with a small and reproducible store.
func newTestContainer(t *testing.T) *entitystore.Container {
	t.Helper()

	conf := &entitystore.Config{
		ApplicationName: "entitystore-test",
		Environment:     entitystore.TestEnv,
		Log:             entitystore.Log{Level: "info"},
		Seed: entitystore.Seed{
			Random:       1337,
			Users:        6,
			Posts:        10,
			News:         8,
			ForumThreads: 2,
		},
	}

	di, shutdown, err := entitystore.InitialiseDependencies(ctx, conf, &bytes.Buffer{})
	require.NoError(t, err)

	t.Cleanup(func() { _ = shutdown(ctx) })

	return di
}

func newTestCLI(t *testing.T) (*cobra.Command, *entitystore.Container) {
	t.Helper()

	di := newTestContainer(t)

	return cmd.NewCLI(cmd.WithContainer(di)), di
}
