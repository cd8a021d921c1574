// Package publish sequences the end-to-end publish flow: version resolution,
// build-arg validation, image build/push, chart discovery, chart
// package/push, optional visibility toggling, and an optional repository
// push.
//
// The flow is an explicit forward-only state machine. Every state may be
// skipped by configuration or by absent inputs, but a skip is always logged
// as an intentional no-op, never silent. All parsing and validation happens
// before the first external side effect, so bad input can never produce a
// partial publish. Collaborator failures abort the remaining states without
// compensating rollback: image and chart pushes are tag-addressed and
// idempotent, so a failed run is simply rerun.
package publish

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/lucas-albers-lz4/shipit/pkg/buildargs"
	"github.com/lucas-albers-lz4/shipit/pkg/chart"
	"github.com/lucas-albers-lz4/shipit/pkg/exitcodes"
	"github.com/lucas-albers-lz4/shipit/pkg/log"
	"github.com/lucas-albers-lz4/shipit/pkg/registry"
	"github.com/lucas-albers-lz4/shipit/pkg/semver"
)

// State names one position in the publish sequence. Transitions only move
// forward.
type State string

// Publish states in execution order.
const (
	StateInit              State = "Init"
	StateVersionResolved   State = "VersionResolved"
	StateArgsResolved      State = "ArgsResolved"
	StateImagePublished    State = "ImagePublished"
	StateChartsDiscovered  State = "ChartsDiscovered"
	StateChartsPublished   State = "ChartsPublished"
	StateVisibilityApplied State = "VisibilityApplied"
	StateDone              State = "Done"
)

// Collaborators are the external systems the orchestrator drives. Each is an
// injectable interface so the flow is testable without docker, helm, git, or
// the GitHub API.
type Collaborators struct {
	Builder    ImageBuilder
	Charts     ChartPublisher
	Visibility VisibilityClient
	Repo       RepoPusher
}

// PublishedChart records one chart publish outcome for the run summary.
type PublishedChart struct {
	Name         string
	ChartVersion string
	Target       registry.Target
}

// Result is the run summary: resolved tags and versions plus what was
// actually published.
type Result struct {
	Tags            []string
	ChartVersion    string
	AppVersion      string
	ImagePath       string
	ImagePublished  bool
	PublishedCharts []PublishedChart
}

// Orchestrator drives one publish run. Create with New; Run may be called
// once per instance.
type Orchestrator struct {
	cfg    Config
	fs     afero.Fs
	collab Collaborators
	state  State
}

// New creates an orchestrator over the given filesystem and collaborators.
func New(cfg Config, fs afero.Fs, collab Collaborators) *Orchestrator {
	return &Orchestrator{cfg: cfg, fs: fs, collab: collab, state: StateInit}
}

// State returns the last state the run reached.
func (o *Orchestrator) State() State {
	return o.state
}

// enter advances the state machine into next.
func (o *Orchestrator) enter(next State) {
	log.Debug("State transition", "from", string(o.state), "to", string(next))
	o.state = next
}

// skip advances into next without performing its work, logging the reason.
func (o *Orchestrator) skip(next State, reason string) {
	log.Info("Skipping step", "state", string(next), "reason", reason)
	o.state = next
}

// fail wraps err with the failing stage and exit code.
func (o *Orchestrator) fail(code int, stage string, err error) error {
	return &exitcodes.ExitCodeError{
		Code: code,
		Err:  fmt.Errorf("stage %s: %w", stage, err),
	}
}

// Run executes the full publish sequence and returns the run summary.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	if err := o.cfg.Validate(); err != nil {
		return nil, err
	}

	// VersionResolved: pure computation, no side effects yet.
	version := semver.Parse(o.cfg.Version)
	result := &Result{
		Tags:         semver.DockerTags(version, o.cfg.AdditionalTags, o.cfg.Breakdown),
		ChartVersion: semver.HelmChartVersion(version, o.cfg.HelmStripSuffix),
		AppVersion:   semver.HelmAppVersion(version, o.cfg.AppStripSuffix),
	}
	o.enter(StateVersionResolved)
	if !version.Semantic {
		log.Info("Version is not semantic, using raw tag", "version", o.cfg.Version)
	}
	log.Info("Version resolved", "tags", result.Tags,
		"chartVersion", result.ChartVersion, "appVersion", result.AppVersion)

	// ArgsResolved: all remaining input validation, still side-effect free.
	args, err := buildargs.Parse(o.cfg.BuildArgs)
	if err != nil {
		return nil, o.fail(exitcodes.ExitMalformedBuildArgs, string(StateArgsResolved), err)
	}
	imagePath, err := registry.ImagePath(o.cfg.Registry, o.cfg.Username, o.cfg.Image)
	if err != nil {
		return nil, o.fail(exitcodes.ExitInputConfigurationError, string(StateArgsResolved), err)
	}
	result.ImagePath = imagePath
	o.enter(StateArgsResolved)

	// ImagePublished.
	if o.cfg.Dockerfile == "" {
		o.skip(StateImagePublished, "no dockerfile configured")
	} else {
		if err := o.publishImage(ctx, result, args); err != nil {
			return result, err
		}
		result.ImagePublished = true
		o.enter(StateImagePublished)
	}

	// ChartsDiscovered / ChartsPublished.
	var entries []chart.Entry
	if !o.cfg.PushHelm {
		o.skip(StateChartsDiscovered, "helm publishing disabled")
		o.skip(StateChartsPublished, "helm publishing disabled")
	} else {
		entries, err = chart.Discover(o.fs, o.cfg.ChartRoot, o.cfg.Image)
		if err != nil {
			return result, o.fail(exitcodes.ExitChartDiscoveryError, string(StateChartsDiscovered), err)
		}
		o.enter(StateChartsDiscovered)

		switch {
		case len(entries) == 0 && o.cfg.RequireChart:
			return result, o.fail(exitcodes.ExitChartRequired, string(StateChartsDiscovered),
				fmt.Errorf("no chart found under %s", o.cfg.ChartRoot))
		case len(entries) == 0:
			o.skip(StateChartsPublished, "no charts discovered")
		default:
			if err := o.publishCharts(ctx, result, entries); err != nil {
				return result, err
			}
			o.enter(StateChartsPublished)
		}
	}

	// VisibilityApplied.
	if !o.cfg.MakePublic {
		o.skip(StateVisibilityApplied, "make-public disabled")
	} else {
		if err := o.applyVisibility(ctx, result); err != nil {
			return result, err
		}
		o.enter(StateVisibilityApplied)
	}

	// Optional repository push, independent of image/chart publishing.
	if !o.cfg.GitPush {
		log.Info("Skipping step", "state", "RepoPush", "reason", "git push disabled")
	} else if err := o.collab.Repo.PushChanges(ctx); err != nil {
		return result, o.fail(exitcodes.ExitGitPushFailed, "RepoPush", err)
	}

	o.enter(StateDone)
	return result, nil
}

// publishImage builds and pushes the container image under every resolved tag.
func (o *Orchestrator) publishImage(ctx context.Context, result *Result, args []buildargs.Arg) error {
	cacheKey := ""
	if o.cfg.Cache {
		// The cache key is derived from chart manifests so dependency changes
		// invalidate it; discovery here is a pure probe, the charts state
		// machine step still owns chart publishing.
		entries, err := chart.Discover(o.fs, o.cfg.ChartRoot, o.cfg.Image)
		if err != nil {
			return o.fail(exitcodes.ExitChartDiscoveryError, string(StateImagePublished), err)
		}
		cacheKey, err = chart.CacheKey(o.fs, entries, o.cfg.OS, o.cfg.Branch)
		if err != nil {
			return o.fail(exitcodes.ExitGeneralRuntimeError, string(StateImagePublished), err)
		}
		log.Debug("Cache key derived", "key", cacheKey)
	}

	fullTags := make([]string, 0, len(result.Tags))
	for _, tag := range result.Tags {
		fullTags = append(fullTags, result.ImagePath+":"+tag)
	}

	req := BuildRequest{
		Dockerfile:  o.cfg.Dockerfile,
		ContextPath: o.cfg.ContextPath,
		Platforms:   o.cfg.Platforms,
		BuildArgs:   buildargs.ToMap(args),
		Tags:        fullTags,
		CacheKey:    cacheKey,
	}
	if err := o.collab.Builder.Build(ctx, req); err != nil {
		return o.fail(exitcodes.ExitImageBuildFailed, string(StateImagePublished), err)
	}
	log.Info("Image published", "image", result.ImagePath, "tags", result.Tags)
	return nil
}

// publishCharts packages and pushes each discovered chart in order. The
// first failure is fatal to the run; charts already pushed stay published
// and are safely republished on rerun.
func (o *Orchestrator) publishCharts(ctx context.Context, result *Result, entries []chart.Entry) error {
	for _, entry := range entries {
		target := registry.ChartPath(o.cfg.Registry, o.cfg.Username, o.cfg.HelmNamespace, entry.Name)
		err := o.collab.Charts.PackageAndPush(ctx, entry.Path, entry.Name,
			result.ChartVersion, result.AppVersion, target)
		if err != nil {
			// Publishers classify their own failures (e.g. loader validation);
			// keep that code instead of flattening everything to a push failure.
			code := exitcodes.ExitChartPublishFailed
			if inner, ok := exitcodes.IsExitCodeError(err); ok {
				code = inner
			}
			return o.fail(code, string(StateChartsPublished),
				fmt.Errorf("chart %s: %w", entry.Name, err))
		}
		result.PublishedCharts = append(result.PublishedCharts, PublishedChart{
			Name:         entry.Name,
			ChartVersion: result.ChartVersion,
			Target:       target,
		})
	}
	return nil
}

// applyVisibility makes each published artifact public, once per artifact.
func (o *Orchestrator) applyVisibility(ctx context.Context, result *Result) error {
	if result.ImagePublished {
		// The image publishes under its lowercased repository path
		// (registry.ImagePath), so the visibility call must address the
		// package by that same normalized name.
		if err := o.collab.Visibility.MakePublic(ctx, strings.ToLower(o.cfg.Image)); err != nil {
			return o.fail(exitcodes.ExitVisibilityFailed, string(StateVisibilityApplied), err)
		}
	}
	for _, published := range result.PublishedCharts {
		if err := o.collab.Visibility.MakePublic(ctx, published.Target.EncodedPath); err != nil {
			return o.fail(exitcodes.ExitVisibilityFailed, string(StateVisibilityApplied), err)
		}
	}
	return nil
}
