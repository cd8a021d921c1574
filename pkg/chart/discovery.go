// Package chart discovers Helm charts under a chart root directory and
// derives the dependency cache key for the charts it finds.
package chart

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"helm.sh/helm/v3/pkg/chartutil"

	"github.com/lucas-albers-lz4/shipit/pkg/log"
)

// Entry identifies one discovered chart: the name it will be published under
// and the directory holding its manifest.
type Entry struct {
	Name string
	Path string
}

// Discover classifies chartRoot as single-chart or multi-chart.
//
// A Chart.yaml directly under chartRoot means single-chart mode: exactly one
// entry named after the supplied image name, regardless of sibling
// subdirectories. Otherwise each immediate subdirectory with a Chart.yaml at
// its root yields one entry named after the subdirectory, in enumeration
// order. Manifests nested deeper than one level are deliberately not walked.
//
// A missing chart root, or a root that yields no entries, returns an empty
// slice and no error; the orchestrator decides whether that skips the Helm
// steps or is fatal.
func Discover(fs afero.Fs, chartRoot, imageName string) ([]Entry, error) {
	rootExists, err := afero.DirExists(fs, chartRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to check chart root %s: %w", chartRoot, err)
	}
	if !rootExists {
		log.Debug("Chart root does not exist", "path", chartRoot)
		return nil, nil
	}

	if hasManifest, err := manifestExists(fs, chartRoot); err != nil {
		return nil, err
	} else if hasManifest {
		log.Debug("Single-chart mode", "path", chartRoot, "name", imageName)
		return []Entry{{Name: imageName, Path: chartRoot}}, nil
	}

	infos, err := afero.ReadDir(fs, chartRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to list chart root %s: %w", chartRoot, err)
	}

	var entries []Entry
	for _, info := range infos {
		if !info.IsDir() {
			continue
		}
		subdir := filepath.Join(chartRoot, info.Name())
		hasManifest, err := manifestExists(fs, subdir)
		if err != nil {
			return nil, err
		}
		if hasManifest {
			entries = append(entries, Entry{Name: info.Name(), Path: subdir})
		}
	}
	log.Debug("Multi-chart discovery complete", "path", chartRoot, "charts", len(entries))
	return entries, nil
}

// manifestExists reports whether dir contains a chart manifest at its root.
func manifestExists(fs afero.Fs, dir string) (bool, error) {
	manifest := filepath.Join(dir, chartutil.ChartfileName)
	_, err := fs.Stat(manifest)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat %s: %w", manifest, err)
}
