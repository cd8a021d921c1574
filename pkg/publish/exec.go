package publish

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/pkg/errors"

	"github.com/lucas-albers-lz4/shipit/pkg/log"
)

// Variable for exec.CommandContext to support mocking in tests.
var execCommandContext = exec.CommandContext

// runCommand executes an external command and returns its stdout. display is
// the string logged and used in error messages; callers must keep secret
// material (build-arg values, tokens) out of it. extraEnv entries are
// appended to the inherited environment.
func runCommand(ctx context.Context, display string, extraEnv []string, name string, args ...string) (string, error) {
	log.Info("Executing", "command", display)

	// #nosec G204 -- argument lists are assembled from validated config
	cmd := execCommandContext(ctx, name, args...)
	if len(extraEnv) > 0 {
		cmd.Env = append(cmd.Environ(), extraEnv...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		log.Error("Command failed", "command", display, "stderr", stderr.String())
		return stdout.String(), errors.Wrapf(err, "%s failed: %s", display, stderr.String())
	}
	return stdout.String(), nil
}
