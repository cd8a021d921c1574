package publish

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucas-albers-lz4/shipit/pkg/exitcodes"
	"github.com/lucas-albers-lz4/shipit/pkg/registry"
)

func writeTestChart(t *testing.T, name string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	manifest := "apiVersion: v2\nname: " + name + "\nversion: 0.1.0\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Chart.yaml"), []byte(manifest), 0o644))
	return dir
}

// helmStub answers `helm version --short` with a supported version and
// succeeds for everything else, recording each invocation.
func helmStub(t *testing.T, calls *[]recordedCall) {
	t.Helper()
	stubExec(t, func(name string, args []string) *exec.Cmd {
		*calls = append(*calls, recordedCall{name, args})
		if len(args) > 0 && args[0] == "version" {
			return exec.Command("echo", "v3.14.2+g0e1f115")
		}
		return exec.Command("true")
	})
}

func TestHelmCLIPublisherPackageAndPush(t *testing.T) {
	chartDir := writeTestChart(t, "widget")
	packageDir := t.TempDir()

	var calls []recordedCall
	helmStub(t, &calls)

	publisher := &HelmCLIPublisher{PackageDir: packageDir}
	target := registry.ChartPath("ghcr.io", "acme", "helm/packages", "widget")
	err := publisher.PackageAndPush(context.Background(), chartDir, "widget", "1.2.3", "1.2.3-dev", target)
	require.NoError(t, err)

	// version preflight, package, push
	require.Len(t, calls, 3)
	assert.Equal(t, []string{"version", "--short"}, calls[0].Args)

	assert.Equal(t, "helm", calls[1].Name)
	assert.Equal(t, []string{
		"package", chartDir,
		"--version", "1.2.3",
		"--app-version", "1.2.3-dev",
		"--destination", packageDir,
	}, calls[1].Args)

	archive := filepath.Join(packageDir, "widget-1.2.3.tgz")
	assert.Equal(t, []string{"push", archive, "oci://ghcr.io/acme/helm/packages"}, calls[2].Args)
}

func TestHelmCLIPublisherVersionCheckedOnce(t *testing.T) {
	chartDir := writeTestChart(t, "widget")

	var calls []recordedCall
	helmStub(t, &calls)

	publisher := &HelmCLIPublisher{PackageDir: t.TempDir()}
	target := registry.ChartPath("ghcr.io", "acme", "", "widget")
	require.NoError(t, publisher.PackageAndPush(context.Background(), chartDir, "widget", "1.0.0", "1.0.0", target))
	require.NoError(t, publisher.PackageAndPush(context.Background(), chartDir, "widget", "1.0.0", "1.0.0", target))

	versionCalls := 0
	for _, call := range calls {
		if len(call.Args) > 0 && call.Args[0] == "version" {
			versionCalls++
		}
	}
	assert.Equal(t, 1, versionCalls)
}

func TestHelmCLIPublisherRejectsInvalidChart(t *testing.T) {
	dir := t.TempDir() // no Chart.yaml

	var calls []recordedCall
	helmStub(t, &calls)

	publisher := &HelmCLIPublisher{PackageDir: t.TempDir()}
	target := registry.ChartPath("ghcr.io", "acme", "", "widget")
	err := publisher.PackageAndPush(context.Background(), dir, "widget", "1.0.0", "1.0.0", target)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "helm chart load failed")

	code, ok := exitcodes.IsExitCodeError(err)
	require.True(t, ok)
	assert.Equal(t, exitcodes.ExitChartLoadFailed, code)

	// Only the version preflight ran; nothing was packaged or pushed.
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"version", "--short"}, calls[0].Args)
}

func TestHelmCLIPublisherPushFailure(t *testing.T) {
	chartDir := writeTestChart(t, "widget")

	stubExec(t, func(_ string, args []string) *exec.Cmd {
		switch args[0] {
		case "version":
			return exec.Command("echo", "v3.14.2")
		case "push":
			return exec.Command("false")
		default:
			return exec.Command("true")
		}
	})

	publisher := &HelmCLIPublisher{PackageDir: t.TempDir()}
	target := registry.ChartPath("ghcr.io", "acme", "", "widget")
	err := publisher.PackageAndPush(context.Background(), chartDir, "widget", "1.0.0", "1.0.0", target)
	assert.Error(t, err)
}
