// Package version carries build metadata injected at link time:
//
//	go build -ldflags "-X github.com/rickgao/torobit-data/internal/version.Version=1.0.0 \
//	                   -X github.com/rickgao/torobit-data/internal/version.Commit=$(git rev-parse --short HEAD) \
//	                   -X github.com/rickgao/torobit-data/internal/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package version

// Set via ldflags; the defaults identify ad-hoc builds.
var (
	// Version is the semantic version (e.g., "1.0.0")
	Version = "dev"

	// Commit is the short git commit hash
	Commit = "unknown"

	// BuildTime is the UTC build timestamp (ISO 8601)
	BuildTime = "unknown"
)

// String returns a formatted version string.
func String() string {
	return Version + " (" + Commit + ") built " + BuildTime
}
