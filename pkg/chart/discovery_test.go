package chart

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeChart(t *testing.T, fs afero.Fs, dir, name string) {
	t.Helper()
	manifest := "apiVersion: v2\nname: " + name + "\nversion: 0.1.0\n"
	require.NoError(t, fs.MkdirAll(dir, 0o755))
	require.NoError(t, afero.WriteFile(fs, dir+"/Chart.yaml", []byte(manifest), 0o644))
}

func TestDiscoverSingleChart(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeChart(t, fs, "helm", "widget")
	// Sibling subdirectory charts are ignored in single-chart mode.
	writeChart(t, fs, "helm/extra", "extra")

	entries, err := Discover(fs, "helm", "widget-image")
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Name: "widget-image", Path: "helm"}}, entries)
}

func TestDiscoverMultiChart(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeChart(t, fs, "helm/app-a", "app-a")
	writeChart(t, fs, "helm/app-b", "app-b")
	require.NoError(t, fs.MkdirAll("helm/not-a-chart", 0o755))
	require.NoError(t, afero.WriteFile(fs, "helm/README.md", []byte("docs"), 0o644))

	entries, err := Discover(fs, "helm", "widget-image")
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Name: "app-a", Path: "helm/app-a"},
		{Name: "app-b", Path: "helm/app-b"},
	}, entries)
}

func TestDiscoverIgnoresDeeplyNestedManifests(t *testing.T) {
	fs := afero.NewMemMapFs()
	// Manifest two levels down is deliberately not discovered.
	writeChart(t, fs, "helm/group/app", "app")

	entries, err := Discover(fs, "helm", "widget-image")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDiscoverMissingRoot(t *testing.T) {
	fs := afero.NewMemMapFs()

	entries, err := Discover(fs, "no-such-dir", "widget-image")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDiscoverEmptyRoot(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("helm", 0o755))

	entries, err := Discover(fs, "helm", "widget-image")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
