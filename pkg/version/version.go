// Package version reports the suitekit release.
package version

import "fmt"

// Semantic version components.
const (
	// Major is the major version (breaking changes).
	Major = 0
	// Minor is the minor version (new suites, groups or commands).
	Minor = 3
	// Patch is the patch version (bug fixes).
	Patch = 1
	// Label is the optional pre-release label.
	Label = ""
)

// String returns the version in "vMAJOR.MINOR.PATCH[-LABEL]" form.
func String() string {
	v := fmt.Sprintf("v%d.%d.%d", Major, Minor, Patch)
	if Label != "" {
		v += "-" + Label
	}
	return v
}

// Full returns the version prefixed with the project name.
func Full() string {
	return fmt.Sprintf("suitekit %s", String())
}

// UserAgent returns the value suitectl sends in HTTP and TLS probe logs.
func UserAgent() string {
	return "suitectl/" + String()[1:]
}
