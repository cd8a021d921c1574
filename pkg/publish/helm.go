package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"helm.sh/helm/v3/pkg/chart/loader"

	"github.com/lucas-albers-lz4/shipit/pkg/exitcodes"
	"github.com/lucas-albers-lz4/shipit/pkg/log"
	"github.com/lucas-albers-lz4/shipit/pkg/registry"
)

// ChartPublisher packages one chart and pushes it to its OCI target.
type ChartPublisher interface {
	PackageAndPush(ctx context.Context, chartDir, name, chartVersion, appVersion string, target registry.Target) error
}

// HelmCLIPublisher implements ChartPublisher by loading the chart with the
// Helm SDK for validation and shelling out to the helm binary for package and
// push. PackageDir is where .tgz archives are written; empty means a
// temporary directory per call.
type HelmCLIPublisher struct {
	PackageDir string

	versionOnce sync.Once
	versionErr  error
}

// PackageAndPush validates the chart, packages it with the resolved chart
// and app versions, and pushes the archive to the target's OCI repository.
// Pushing the same content for the same version twice is accepted by OCI
// registries, so a rerun republishes safely.
func (p *HelmCLIPublisher) PackageAndPush(ctx context.Context, chartDir, name, chartVersion, appVersion string, target registry.Target) error {
	p.versionOnce.Do(func() { p.versionErr = CheckHelmVersion(ctx) })
	if p.versionErr != nil {
		return p.versionErr
	}

	chartData, err := loader.LoadDir(chartDir)
	if err != nil {
		return &exitcodes.ExitCodeError{
			Code: exitcodes.ExitChartLoadFailed,
			Err:  fmt.Errorf("helm chart load failed for %s: %w", chartDir, err),
		}
	}
	if chartData.Name() != name {
		// helm push publishes under the manifest name, not the directory name.
		log.Warn("Chart manifest name differs from discovered name",
			"manifest", chartData.Name(), "discovered", name)
	}

	destDir := p.PackageDir
	if destDir == "" {
		tmp, err := os.MkdirTemp("", "shipit-charts-")
		if err != nil {
			return fmt.Errorf("failed to create package directory: %w", err)
		}
		defer func() {
			if rmErr := os.RemoveAll(tmp); rmErr != nil {
				log.Warn("Failed to clean package directory", "path", tmp, "error", rmErr)
			}
		}()
		destDir = tmp
	}

	packageArgs := []string{
		"package", chartDir,
		"--version", chartVersion,
		"--app-version", appVersion,
		"--destination", destDir,
	}
	display := fmt.Sprintf("helm package %s", chartDir)
	if _, err := runCommand(ctx, display, nil, "helm", packageArgs...); err != nil {
		return err
	}

	archive := filepath.Join(destDir, fmt.Sprintf("%s-%s.tgz", chartData.Name(), chartVersion))
	repo := registry.RepoFromOCIPath(target)

	display = fmt.Sprintf("helm push %s %s", archive, repo)
	if _, err := runCommand(ctx, display, nil, "helm", "push", archive, repo); err != nil {
		return err
	}

	log.Info("Chart published", "chart", chartData.Name(), "version", chartVersion, "target", target.OCIPath)
	return nil
}
