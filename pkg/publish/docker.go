package publish

import (
	"context"
	"fmt"
	"strings"

	"github.com/lucas-albers-lz4/shipit/pkg/log"
)

// BuildRequest carries everything the image builder needs for one build.
// BuildArgs values may hold secret material and are never logged; an empty
// CacheKey disables the build cache.
type BuildRequest struct {
	Dockerfile  string
	ContextPath string
	Platforms   []string
	BuildArgs   map[string]string
	Tags        []string // fully qualified repo:tag references
	CacheKey    string
}

// ImageBuilder builds and pushes the container image for a run.
type ImageBuilder interface {
	Build(ctx context.Context, req BuildRequest) error
}

// DockerBuilder implements ImageBuilder by shelling out to docker buildx.
type DockerBuilder struct{}

// Build runs `docker buildx build --push` with the requested tags, platforms,
// build args, and cache scope.
func (b *DockerBuilder) Build(ctx context.Context, req BuildRequest) error {
	args := []string{"buildx", "build", "--push", "--file", req.Dockerfile}

	if len(req.Platforms) > 0 {
		args = append(args, "--platform", strings.Join(req.Platforms, ","))
	}
	for _, tag := range req.Tags {
		args = append(args, "--tag", tag)
	}
	for key, value := range req.BuildArgs {
		args = append(args, "--build-arg", key+"="+value)
	}
	if req.CacheKey != "" {
		args = append(args,
			"--cache-from", "type=gha,scope="+req.CacheKey,
			"--cache-to", fmt.Sprintf("type=gha,scope=%s,mode=max", req.CacheKey),
		)
	}
	args = append(args, req.ContextPath)

	// Display string omits the full argument list: build-arg values may be secret.
	display := fmt.Sprintf("docker buildx build (%d tags)", len(req.Tags))
	log.Debug("Image build", "dockerfile", req.Dockerfile, "context", req.ContextPath,
		"platforms", req.Platforms, "tags", req.Tags, "cache", req.CacheKey != "")

	_, err := runCommand(ctx, display, nil, "docker", args...)
	return err
}
