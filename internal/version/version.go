// Package version carries build-time identification, stamped via -ldflags.
package version

// Name is the product name shown in window titles and the about dialog.
const Name = "Mockup Studio"

var (
	// Version is the semantic version.
	Version = "0.1.0"

	// BuildTime is the UTC time when the binary was built.
	BuildTime = "unknown"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"
)
