package publish

import (
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitCLIPusherPushChanges(t *testing.T) {
	var captured *exec.Cmd
	var call recordedCall
	stubExec(t, func(name string, args []string) *exec.Cmd {
		call = recordedCall{name, args}
		captured = exec.Command("true")
		return captured
	})

	pusher := &GitCLIPusher{Token: "test-token"}
	require.NoError(t, pusher.PushChanges(context.Background()))

	assert.Equal(t, "git", call.Name)
	assert.Equal(t, []string{"push", "origin", "HEAD"}, call.Args)

	// The token rides in the environment, never in the argument list.
	var foundHeader bool
	for _, env := range captured.Env {
		assert.NotContains(t, env, "test-token")
		if strings.HasPrefix(env, "GIT_CONFIG_KEY_0=http.extraHeader") {
			foundHeader = true
		}
	}
	assert.True(t, foundHeader, "expected extraHeader config in environment")
}

func TestGitCLIPusherNoTokenNoExtraEnv(t *testing.T) {
	var captured *exec.Cmd
	stubExec(t, func(_ string, _ []string) *exec.Cmd {
		captured = exec.Command("true")
		return captured
	})

	pusher := &GitCLIPusher{}
	require.NoError(t, pusher.PushChanges(context.Background()))
	assert.Nil(t, captured.Env)
}

func TestGitCLIPusherFailure(t *testing.T) {
	stubExec(t, func(_ string, _ []string) *exec.Cmd {
		return exec.Command("false")
	})

	pusher := &GitCLIPusher{Token: "test-token"}
	assert.Error(t, pusher.PushChanges(context.Background()))
}
