package publish

import (
	"context"
	"os/exec"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDockerBuilderComposesArgs(t *testing.T) {
	var calls []recordedCall
	stubExec(t, func(name string, args []string) *exec.Cmd {
		calls = append(calls, recordedCall{name, args})
		return exec.Command("true")
	})

	builder := &DockerBuilder{}
	err := builder.Build(context.Background(), BuildRequest{
		Dockerfile:  "Dockerfile",
		ContextPath: ".",
		Platforms:   []string{"linux/amd64", "linux/arm64"},
		BuildArgs:   map[string]string{"GO_VERSION": "1.24"},
		Tags:        []string{"ghcr.io/acme/widget:v1.2.3", "ghcr.io/acme/widget:latest"},
		CacheKey:    "helm-deps-linux-main-abc",
	})
	require.NoError(t, err)

	require.Len(t, calls, 1)
	assert.Equal(t, "docker", calls[0].Name)
	wantArgs := []string{
		"buildx", "build", "--push",
		"--file", "Dockerfile",
		"--platform", "linux/amd64,linux/arm64",
		"--tag", "ghcr.io/acme/widget:v1.2.3",
		"--tag", "ghcr.io/acme/widget:latest",
		"--build-arg", "GO_VERSION=1.24",
		"--cache-from", "type=gha,scope=helm-deps-linux-main-abc",
		"--cache-to", "type=gha,scope=helm-deps-linux-main-abc,mode=max",
		".",
	}
	if !cmp.Equal(wantArgs, calls[0].Args) {
		t.Errorf("buildx args mismatch (-want +got):\n%s", cmp.Diff(wantArgs, calls[0].Args))
	}
}

func TestDockerBuilderOmitsCacheFlagsWhenDisabled(t *testing.T) {
	var calls []recordedCall
	stubExec(t, func(name string, args []string) *exec.Cmd {
		calls = append(calls, recordedCall{name, args})
		return exec.Command("true")
	})

	builder := &DockerBuilder{}
	err := builder.Build(context.Background(), BuildRequest{
		Dockerfile:  "Dockerfile",
		ContextPath: ".",
		Tags:        []string{"ghcr.io/acme/widget:v1.2.3"},
	})
	require.NoError(t, err)

	require.Len(t, calls, 1)
	assert.NotContains(t, calls[0].Args, "--cache-from")
	assert.NotContains(t, calls[0].Args, "--cache-to")
	assert.NotContains(t, calls[0].Args, "--platform")
}

func TestDockerBuilderPropagatesFailure(t *testing.T) {
	stubExec(t, func(_ string, _ []string) *exec.Cmd {
		return exec.Command("false")
	})

	builder := &DockerBuilder{}
	err := builder.Build(context.Background(), BuildRequest{
		Dockerfile:  "Dockerfile",
		ContextPath: ".",
		Tags:        []string{"ghcr.io/acme/widget:v1.2.3"},
	})
	assert.Error(t, err)
}
