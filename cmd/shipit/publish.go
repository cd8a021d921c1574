package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lucas-albers-lz4/shipit/pkg/exitcodes"
	"github.com/lucas-albers-lz4/shipit/pkg/log"
	"github.com/lucas-albers-lz4/shipit/pkg/publish"
)

// publishFlags holds the raw flag values for the publish command before they
// are resolved into a publish.Config.
type publishFlags struct {
	registry        string
	username        string
	image           string
	version         string
	tags            string
	dockerfile      string
	contextPath     string
	platforms       string
	buildArgs       string
	breakdown       bool
	cache           bool
	chartRoot       string
	pushHelm        bool
	requireChart    bool
	helmStripSuffix bool
	appStripSuffix  bool
	helmNamespace   string
	makePublic      bool
	gitPush         bool
	token           string
	branch          string
}

func newPublishCmd() *cobra.Command {
	flags := &publishFlags{}

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Build and publish the container image and Helm chart(s)",
		Long: `Publish resolves the version string into container tags and a chart
version, builds and pushes the container image, discovers and pushes the Helm
chart(s), and optionally makes the published packages public and pushes
pending repository changes.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolvePublishConfig(flags)
			if err != nil {
				return err
			}
			return runPublish(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&flags.registry, "registry", "ghcr.io", "OCI registry host")
	cmd.Flags().StringVar(&flags.username, "username", "", "registry username (image and chart owner)")
	cmd.Flags().StringVar(&flags.image, "image", "", "image name")
	cmd.Flags().StringVar(&flags.version, "version", "", "version string to resolve into tags")
	cmd.Flags().StringVar(&flags.tags, "tags", "", "additional tags (comma separated)")
	cmd.Flags().StringVar(&flags.dockerfile, "dockerfile", "Dockerfile", "path to the Dockerfile (missing file skips the image publish)")
	cmd.Flags().StringVar(&flags.contextPath, "context", ".", "build context path")
	cmd.Flags().StringVar(&flags.platforms, "platforms", "linux/amd64", "target platforms (comma separated)")
	cmd.Flags().StringVar(&flags.buildArgs, "build-args", "", "build args as a JSON array of KEY=VALUE strings")
	cmd.Flags().BoolVar(&flags.breakdown, "breakdown", false, "also tag truncated versions (major.minor, major)")
	cmd.Flags().BoolVar(&flags.cache, "cache", false, "enable the dependency build cache")
	cmd.Flags().StringVar(&flags.chartRoot, "chart-dir", "helm", "chart root directory")
	cmd.Flags().BoolVar(&flags.pushHelm, "push-helm", false, "package and push the discovered chart(s)")
	cmd.Flags().BoolVar(&flags.requireChart, "require-chart", false, "fail when --push-helm finds no chart")
	cmd.Flags().BoolVar(&flags.helmStripSuffix, "helm-strip-suffix", true, "strip the version suffix from the chart version")
	cmd.Flags().BoolVar(&flags.appStripSuffix, "app-strip-suffix", false, "strip the version suffix from the chart appVersion")
	cmd.Flags().StringVar(&flags.helmNamespace, "helm-namespace", "", "registry namespace for chart artifacts (may contain '/')")
	cmd.Flags().BoolVar(&flags.makePublic, "make-public", false, "make published packages public")
	cmd.Flags().BoolVar(&flags.gitPush, "git-push", false, "push pending repository changes after publishing")
	cmd.Flags().StringVar(&flags.token, "token", "", "API token (defaults to GITHUB_TOKEN)")
	cmd.Flags().StringVar(&flags.branch, "branch", "", "branch discriminator for the cache key (defaults to GITHUB_REF_NAME)")

	return cmd
}

// resolvePublishConfig turns raw flags into an explicit config, applying all
// environment defaulting here at the boundary so component logic never reads
// the environment itself.
func resolvePublishConfig(flags *publishFlags) (publish.Config, error) {
	token := flags.token
	if token == "" {
		token = viper.GetString("token") // SHIPIT_TOKEN
	}
	if token == "" {
		viper.MustBindEnv("github-token", "GITHUB_TOKEN")
		token = viper.GetString("github-token")
	}

	branch := flags.branch
	if branch == "" {
		viper.MustBindEnv("ref-name", "GITHUB_REF_NAME")
		branch = viper.GetString("ref-name")
	}
	if branch == "" {
		branch = "local"
	}

	// A missing dockerfile is the "skip image publish" signal, resolved once
	// here rather than probed again inside the orchestrator.
	dockerfile := flags.dockerfile
	if dockerfile != "" {
		exists, err := afero.Exists(AppFs, dockerfile)
		if err != nil {
			return publish.Config{}, &exitcodes.ExitCodeError{
				Code: exitcodes.ExitGeneralRuntimeError,
				Err:  fmt.Errorf("failed to check dockerfile %s: %w", dockerfile, err),
			}
		}
		if !exists {
			log.Info("Dockerfile not found, image publish will be skipped", "path", dockerfile)
			dockerfile = ""
		}
	}

	var platforms []string
	for _, p := range strings.Split(flags.platforms, ",") {
		if p = strings.TrimSpace(p); p != "" {
			platforms = append(platforms, p)
		}
	}

	return publish.Config{
		Registry:        flags.registry,
		Username:        flags.username,
		Image:           flags.image,
		Version:         flags.version,
		AdditionalTags:  flags.tags,
		Dockerfile:      dockerfile,
		ContextPath:     flags.contextPath,
		Platforms:       platforms,
		BuildArgs:       flags.buildArgs,
		Breakdown:       flags.breakdown,
		Cache:           flags.cache,
		ChartRoot:       flags.chartRoot,
		PushHelm:        flags.pushHelm,
		RequireChart:    flags.requireChart,
		HelmStripSuffix: flags.helmStripSuffix,
		AppStripSuffix:  flags.appStripSuffix,
		HelmNamespace:   flags.helmNamespace,
		MakePublic:      flags.makePublic,
		GitPush:         flags.gitPush,
		Token:           token,
		Branch:          branch,
		OS:              runtime.GOOS,
	}, nil
}

// runPublish wires the default collaborators and executes the orchestrator.
func runPublish(cmd *cobra.Command, cfg publish.Config) error {
	collab := publish.Collaborators{
		Builder: &publish.DockerBuilder{},
		Charts:  &publish.HelmCLIPublisher{},
		Visibility: &publish.GitHubVisibilityClient{
			Owner: cfg.Username,
			Token: cfg.Token,
		},
		Repo: &publish.GitCLIPusher{Token: cfg.Token},
	}

	orchestrator := publish.New(cfg, AppFs, collab)
	result, err := orchestrator.Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "tags: %s\n", strings.Join(result.Tags, ", "))
	fmt.Fprintf(cmd.OutOrStdout(), "chart version: %s (appVersion %s)\n", result.ChartVersion, result.AppVersion)
	for _, published := range result.PublishedCharts {
		fmt.Fprintf(cmd.OutOrStdout(), "published chart: %s -> %s\n", published.Name, published.Target.OCIPath)
	}
	return nil
}
