// Package version parses the version strings printed by external tools and
// published as release tags.
package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Parse reads a semantic version from the first non-blank line of s. A
// leading "v" is accepted, so both "v1.3.0" and tool output such as
// "8.19.4\n" parse.
func Parse(s string) (*semver.Version, error) {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return semver.NewVersion(strings.TrimPrefix(strings.TrimSpace(line), "v"))
}
