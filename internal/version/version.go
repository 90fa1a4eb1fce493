// Package version holds the release identifiers stamped in with -ldflags, e.g.
//
//	go build -ldflags "-X input-mapper/internal/version.GitCommit=$(git rev-parse --short HEAD)"
package version

import "fmt"

var (
	Version   = "0.3.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the identifiers the way the CLI and the About dialog show
// them.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime)
}
