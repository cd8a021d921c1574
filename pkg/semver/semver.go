// Package semver parses CI version strings and fans them out into container
// tags and Helm chart version fields.
//
// The parser recognizes one fixed shape: an optional "v" prefix, three
// dot-separated non-negative integers, and an optional suffix starting at the
// first hyphen (e.g. "v1.2.3-rc-1"). Anything else is retained verbatim as an
// opaque version; opaque input is a normal, representable state, not an error,
// so branch-build strings like "main-abc123" flow through unchanged.
package semver

import (
	"fmt"
	"regexp"
	"strconv"
)

// semverPattern matches "v1.2.3-suffix" style versions. The suffix group
// captures everything from the first hyphen to the end of the string, so
// "-rc-1" is one suffix, not further split.
var semverPattern = regexp.MustCompile(`^(v?)(\d+)\.(\d+)\.(\d+)(-.*)?$`)

// Version is the parsed form of a raw version string. When Semantic is false
// only Raw is meaningful; the numeric fields are unused and Raw holds the
// original input verbatim.
type Version struct {
	Raw       string
	HasPrefix bool
	Major     uint64
	Minor     uint64
	Patch     uint64
	Suffix    string // includes the leading "-", empty when absent
	Semantic  bool
}

// Parse parses a raw version string. Non-semantic input never fails; it
// yields an opaque Version with Semantic=false and Raw retained.
func Parse(raw string) Version {
	m := semverPattern.FindStringSubmatch(raw)
	if m == nil {
		return Version{Raw: raw}
	}

	major, err := strconv.ParseUint(m[2], 10, 64)
	if err != nil {
		return Version{Raw: raw}
	}
	minor, err := strconv.ParseUint(m[3], 10, 64)
	if err != nil {
		return Version{Raw: raw}
	}
	patch, err := strconv.ParseUint(m[4], 10, 64)
	if err != nil {
		return Version{Raw: raw}
	}

	return Version{
		Raw:       raw,
		HasPrefix: m[1] == "v",
		Major:     major,
		Minor:     minor,
		Patch:     patch,
		Suffix:    m[5],
		Semantic:  true,
	}
}

// String re-serializes the version. For semantic versions this reproduces the
// original input exactly (prefix, numbers, and suffix round-trip).
func (v Version) String() string {
	if !v.Semantic {
		return v.Raw
	}
	return v.prefix() + fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch) + v.Suffix
}

func (v Version) prefix() string {
	if v.HasPrefix {
		return "v"
	}
	return ""
}

// base returns "major.minor.patch{suffix}" with no prefix.
func (v Version) base() string {
	return fmt.Sprintf("%d.%d.%d%s", v.Major, v.Minor, v.Patch, v.Suffix)
}
