package publish

import (
	"context"
	"os/exec"
	"testing"
)

// stubExec replaces the exec factory for the duration of a test.
func stubExec(t *testing.T, fn func(name string, args []string) *exec.Cmd) {
	t.Helper()
	orig := execCommandContext
	execCommandContext = func(_ context.Context, name string, args ...string) *exec.Cmd {
		return fn(name, args)
	}
	t.Cleanup(func() { execCommandContext = orig })
}

// recordedCall captures one external command invocation.
type recordedCall struct {
	Name string
	Args []string
}
