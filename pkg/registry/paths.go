// Package registry composes OCI registry paths for container images and Helm
// charts. String assembly and percent-encoding live here so the encoding
// rules are unit-testable independent of the publish flow.
package registry

import (
	"fmt"
	"strings"

	"github.com/distribution/reference"
)

// OCIScheme is the scheme prefix Helm expects on chart push destinations.
const OCIScheme = "oci://"

// Target is a resolved chart destination: the OCI path used for the push and
// the percent-encoded package path used only by API calls (e.g. toggling
// package visibility), never by the push itself.
type Target struct {
	OCIPath     string
	EncodedPath string
}

// ImagePath composes the repository path for the container image and
// validates it as a well-formed named reference.
func ImagePath(registryHost, username, imageName string) (string, error) {
	path := fmt.Sprintf("%s/%s/%s", registryHost, strings.ToLower(username), strings.ToLower(imageName))
	if _, err := reference.ParseNamed(path); err != nil {
		return "", fmt.Errorf("invalid image path %q: %w", path, err)
	}
	return path, nil
}

// ChartPath composes the chart push target. An empty namespace omits the
// namespace segment entirely; a namespace may itself contain "/" to express
// nested hierarchy. The encoded path covers the "<namespace>/<chartName>"
// segment with each "/" replaced by %2F.
func ChartPath(registryHost, username, namespace, chartName string) Target {
	pkg := chartName
	if namespace != "" {
		pkg = namespace + "/" + chartName
	}
	return Target{
		OCIPath:     OCIScheme + registryHost + "/" + strings.ToLower(username) + "/" + pkg,
		EncodedPath: strings.ReplaceAll(pkg, "/", "%2F"),
	}
}

// RepoFromOCIPath strips the oci:// scheme and the chart name, returning the
// remote Helm push expects ("oci://host/owner[/namespace]").
func RepoFromOCIPath(t Target) string {
	idx := strings.LastIndex(t.OCIPath, "/")
	if idx < 0 {
		return t.OCIPath
	}
	return t.OCIPath[:idx]
}
