// Package version provides build information for rosterdesk.
package version

import (
	"fmt"
	"runtime"
)

// Version is the release version. Overridden at build time using ldflags.
var Version = "development"

// Commit is the git commit hash. Overridden at build time using ldflags.
var Commit = "unknown"

// String returns the version including the commit hash if available.
func String() string {
	if Commit != "unknown" {
		return Version + "+" + Commit
	}
	return Version
}

// Info returns a one-line build description.
func Info() string {
	return fmt.Sprintf("rosterdesk %s (%s, %s/%s)", String(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
