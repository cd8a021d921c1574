package chart

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
	helmchart "helm.sh/helm/v3/pkg/chart"
	"helm.sh/helm/v3/pkg/chartutil"
	sigsyaml "sigs.k8s.io/yaml"
)

// lockFileName is the Helm dependency lock file checked alongside Chart.yaml.
const lockFileName = "Chart.lock"

// chartLock mirrors the fields of Chart.lock the cache key cares about.
// The digest already summarizes the resolved dependency set, so it is
// preferred over hashing the raw lock file (stable across reformatting).
type chartLock struct {
	Digest string `yaml:"digest"`
}

// CacheKey derives a deterministic dependency cache key for a set of
// discovered charts. The key incorporates an OS and branch discriminator so
// concurrent runs across branches cannot cross-contaminate cache entries,
// plus a digest over each chart's declared dependencies and lock digest, in
// entry order. Charts without a lock file contribute only their manifest
// dependencies; that is not an error.
func CacheKey(fs afero.Fs, entries []Entry, osName, branch string) (string, error) {
	h := sha256.New()

	for _, entry := range entries {
		manifest := filepath.Join(entry.Path, chartutil.ChartfileName)
		data, err := afero.ReadFile(fs, manifest)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", manifest, err)
		}

		var meta helmchart.Metadata
		if err := sigsyaml.Unmarshal(data, &meta); err != nil {
			return "", fmt.Errorf("failed to parse %s: %w", manifest, err)
		}

		fmt.Fprintf(h, "chart:%s\n", entry.Name)
		for _, dep := range meta.Dependencies {
			fmt.Fprintf(h, "dep:%s:%s:%s\n", dep.Name, dep.Version, dep.Repository)
		}

		lockDigest, err := readLockDigest(fs, entry.Path)
		if err != nil {
			return "", err
		}
		if lockDigest != "" {
			fmt.Fprintf(h, "lock:%s\n", lockDigest)
		}
	}

	digest := hex.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("helm-deps-%s-%s-%s", osName, branch, digest[:16]), nil
}

// readLockDigest returns the digest recorded in Chart.lock, or the hash of
// the file content when no digest field is present. Missing lock files
// return an empty digest.
func readLockDigest(fs afero.Fs, chartDir string) (string, error) {
	lockPath := filepath.Join(chartDir, lockFileName)
	data, err := afero.ReadFile(fs, lockPath)
	if err != nil {
		if exists, existsErr := afero.Exists(fs, lockPath); existsErr == nil && !exists {
			return "", nil
		}
		return "", fmt.Errorf("failed to read %s: %w", lockPath, err)
	}

	var lock chartLock
	if err := yaml.Unmarshal(data, &lock); err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", lockPath, err)
	}
	if lock.Digest != "" {
		return lock.Digest, nil
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
