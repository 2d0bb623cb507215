package installer

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CompareVersions compares two version strings using semver.
// Returns -1 if a < b, 0 if equal, 1 if a > b. A leading "v" is ignored.
func CompareVersions(a, b string) (int, error) {
	av, err := parseSemver(a)
	if err != nil {
		return 0, fmt.Errorf("parsing version %q: %w", a, err)
	}
	bv, err := parseSemver(b)
	if err != nil {
		return 0, fmt.Errorf("parsing version %q: %w", b, err)
	}
	return av.Compare(bv), nil
}

// describeChange names the direction of a version change for log output.
// Versions that do not parse (branch aliases such as "dev-master") are a
// plain update.
func describeChange(from, to string) string {
	cmp, err := CompareVersions(from, to)
	if err != nil {
		return "updating"
	}
	switch cmp {
	case -1:
		return "upgrading"
	case 1:
		return "downgrading"
	default:
		return "reinstalling"
	}
}

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(version string) (*semver.Version, error) {
	version = strings.TrimPrefix(version, "v")
	return semver.NewVersion(version)
}
