// Package buildinfo holds the version stamped into barnhunt at build time.
//
//	go build -ldflags "-X github.com/barnhunt/barnhunt/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/barnhunt/barnhunt/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/barnhunt/barnhunt/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	// Version is the release version, "dev" for local builds.
	Version = "dev"
	// Commit is the git commit SHA.
	Commit = "none"
	// Date is the build timestamp.
	Date = "unknown"
)

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (commit %s, built %s)\n", Version, Commit, Date)
}

// CacheScope returns the prefix that keeps cached pages from different
// builds apart. Development builds share one scope per commit.
func CacheScope() string {
	if Version == "dev" {
		return "dev-" + Commit + ":"
	}
	return Version + ":"
}
