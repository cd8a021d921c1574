package publish

import (
	"fmt"

	"github.com/lucas-albers-lz4/shipit/pkg/exitcodes"
)

// Config carries every input the publish flow needs. All ambient CI context
// (owner, token, branch) is resolved into this struct at the CLI boundary;
// nothing below reads the environment.
type Config struct {
	Registry       string
	Username       string
	Image          string
	Version        string
	AdditionalTags string // CSV, appended after version-derived tags

	Dockerfile  string // empty skips the image publish step
	ContextPath string
	Platforms   []string
	BuildArgs   string // JSON array of KEY=VALUE strings
	Breakdown   bool
	Cache       bool

	ChartRoot       string
	PushHelm        bool
	RequireChart    bool
	HelmStripSuffix bool
	AppStripSuffix  bool
	HelmNamespace   string

	MakePublic bool
	GitPush    bool
	Token      string

	Branch string
	OS     string
}

// Validate checks the inputs every run needs regardless of which steps are
// enabled.
func (c *Config) Validate() error {
	missing := func(flag string) error {
		return &exitcodes.ExitCodeError{
			Code: exitcodes.ExitMissingRequiredFlag,
			Err:  fmt.Errorf("required flag --%s not provided", flag),
		}
	}
	switch {
	case c.Registry == "":
		return missing("registry")
	case c.Username == "":
		return missing("username")
	case c.Image == "":
		return missing("image")
	case c.Version == "":
		return missing("version")
	}
	if c.MakePublic && c.Token == "" {
		return &exitcodes.ExitCodeError{
			Code: exitcodes.ExitInputConfigurationError,
			Err:  fmt.Errorf("--make-public requires --token"),
		}
	}
	return nil
}
