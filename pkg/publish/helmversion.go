package publish

import (
	"context"
	"fmt"
	"strings"

	"github.com/lucas-albers-lz4/shipit/pkg/log"
)

// MinHelmVersion is the minimum Helm version with OCI registry support
// enabled by default.
const MinHelmVersion = "3.8.0"

// parseHelmVersionString extracts the core semantic version (e.g. "3.14.2")
// from the output of `helm version --short` (e.g. "v3.14.2+g0e1f115").
func parseHelmVersionString(versionStr string) string {
	parsed := strings.TrimSpace(versionStr)
	parsed = strings.TrimPrefix(parsed, "v")
	parsed = strings.Split(parsed, "+")[0]
	return parsed
}

// CheckHelmVersion verifies the installed helm binary meets the minimum
// version requirement before any chart is packaged.
func CheckHelmVersion(ctx context.Context) error {
	out, err := runCommand(ctx, "helm version --short", nil, "helm", "version", "--short")
	if err != nil {
		return fmt.Errorf("failed to get helm version: %w", err)
	}

	version := parseHelmVersionString(out)
	if !isVersionGreaterOrEqual(version, MinHelmVersion) {
		return fmt.Errorf("helm version %s is not supported, minimum required version is %s", version, MinHelmVersion)
	}

	log.Debug("Helm version check passed", "version", version)
	return nil
}

// isVersionGreaterOrEqual compares two dotted versions component-wise.
func isVersionGreaterOrEqual(v1, v2 string) bool {
	v1Parts := strings.Split(v1, ".")
	v2Parts := strings.Split(v2, ".")

	for i := 0; i < 3; i++ {
		if i >= len(v1Parts) || i >= len(v2Parts) {
			return false
		}

		v1Num := 0
		v2Num := 0
		if _, err := fmt.Sscanf(v1Parts[i], "%d", &v1Num); err != nil {
			v1Num = 0
		}
		if _, err := fmt.Sscanf(v2Parts[i], "%d", &v2Num); err != nil {
			v2Num = 0
		}

		if v1Num > v2Num {
			return true
		}
		if v1Num < v2Num {
			return false
		}
	}

	return true
}
