package cmd

import (
	"bytes"
	"sync"
	"testing"

	"github.com/spf13/cobra"
)

// mu synchronisation is required:
// As TestExecute accepts a pointer to the cobra command,
// concurrent tests on the same command will create a race condition.
var mu sync.Mutex

// TestExecute is a helper that executes a cobra command and returns its combined output and error.
func TestExecute(t *testing.T, command *cobra.Command, args ...string) (string, error) {
	t.Helper()

	mu.Lock()
	defer mu.Unlock()

	buf := new(syncBuffer)
	command.SetOut(buf)
	command.SetErr(buf)

	if args == nil {
		// leaving args nil makes cobra fall back to os.Args
		args = []string{}
	}

	command.SetArgs(args)
	_, err := command.ExecuteC()

	return buf.String(), err
}

// syncBuffer is a helper implementing io.Writer, used for concurrency save testing.
type syncBuffer struct {
	b bytes.Buffer
	m sync.Mutex
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.m.Lock()
	defer b.m.Unlock()

	return b.b.Write(p) //nolint:wrapcheck
}

func (b *syncBuffer) String() string {
	b.m.Lock()
	defer b.m.Unlock()

	return b.b.String()
}
