// Package version holds build metadata set with -ldflags.
package version

import (
	"fmt"
	"io"
)

var (
	// Version is the current application version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String formats the build metadata on one line.
func String() string {
	return fmt.Sprintf("motion %s (%s, built %s)", Version, GitSHA, BuildTime)
}

// Print writes String and a newline to w.
func Print(w io.Writer) {
	fmt.Fprintln(w, String())
}
