// Package version exposes build identity for logs and status endpoints
package version

// set via -ldflags "-X codewarden/internal/core/version.Version=..."
var (
	Version = "dev"
	Commit  = "unknown"
)

// String returns "version (commit)"
func String() string { return Version + " (" + Commit + ")" }
