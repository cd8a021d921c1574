package semver

import (
	"fmt"
	"strings"
)

// DockerTags expands a parsed version into the ordered list of container tags.
//
// Semantic versions with breakdown enabled produce the full version followed
// by progressively truncated forms (major.minor, major), each reproducing the
// input's "v" prefix only if the input carried one. Opaque versions produce a
// single tag equal to the raw input. Additional tags come from a CSV string;
// entries are trimmed, empties dropped, and values appended unmodified after
// the version-derived tags. No de-duplication is performed: insertion order
// is the output order.
func DockerTags(v Version, additionalCSV string, breakdown bool) []string {
	var tags []string

	switch {
	case !v.Semantic:
		tags = append(tags, v.Raw)
	case breakdown:
		tags = append(tags,
			fmt.Sprintf("%s%d.%d.%d%s", v.prefix(), v.Major, v.Minor, v.Patch, v.Suffix),
			fmt.Sprintf("%s%d.%d%s", v.prefix(), v.Major, v.Minor, v.Suffix),
			fmt.Sprintf("%s%d%s", v.prefix(), v.Major, v.Suffix),
		)
	default:
		tags = append(tags, v.String())
	}

	return append(tags, splitAdditional(additionalCSV)...)
}

// HelmChartVersion derives the chart version field: the bare
// "major.minor.patch{suffix}" form with the "v" prefix always removed.
// When stripSuffix is true the suffix is truncated at the first hyphen.
// Opaque versions fall back to the raw string with a leading "v" trimmed.
func HelmChartVersion(v Version, stripSuffix bool) string {
	return helmVersion(v, stripSuffix)
}

// HelmAppVersion derives the appVersion field. Identical derivation to
// HelmChartVersion but controlled by an independent flag, so a descriptive
// app version can be kept while publishing a clean chart version.
func HelmAppVersion(v Version, stripSuffix bool) string {
	return helmVersion(v, stripSuffix)
}

func helmVersion(v Version, stripSuffix bool) string {
	if !v.Semantic {
		return strings.TrimPrefix(v.Raw, "v")
	}
	if stripSuffix {
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
	return v.base()
}

// splitAdditional splits a comma-separated tag list, trimming whitespace and
// discarding empty entries.
func splitAdditional(csv string) []string {
	if csv == "" {
		return nil
	}
	var out []string
	for _, t := range strings.Split(csv, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
