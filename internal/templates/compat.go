package templates

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/createkit/createkit/internal/branding"
)

// CheckCompatibility returns an error when the template requires a newer CLI
// than cliVersion. Development builds (a version that does not parse, such
// as "dev") are always considered compatible.
func (t *Template) CheckCompatibility(cliVersion string) error {
	if t.Meta == nil || t.Meta.MinCLIVersion == "" {
		return nil
	}
	current, err := parseSemver(cliVersion)
	if err != nil {
		return nil
	}
	required, err := parseSemver(t.Meta.MinCLIVersion)
	if err != nil {
		return fmt.Errorf("template %q: parsing min_cli_version %q: %w", t.Name, t.Meta.MinCLIVersion, err)
	}
	if current.LessThan(required) {
		return fmt.Errorf("template %q requires %s %s or newer (running %s)", t.Name, branding.CLIName(), required, current)
	}
	return nil
}

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(version string) (*semver.Version, error) {
	version = strings.TrimPrefix(strings.TrimSpace(version), "v")
	return semver.NewVersion(version)
}
