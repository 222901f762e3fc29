// Package version holds build metadata injected via ldflags.
package version

import "fmt"

//nolint:revive // Set via ldflags at build time.
var (
	Version = "2.0.0"
	Commit  = "unknown"
	Date    = "unknown"
)

// String renders the version line printed by the CLI.
func String() string {
	return fmt.Sprintf("cinedex %s (commit %s, built %s)", Version, Commit, Date)
}
