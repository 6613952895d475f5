// Package version provides application version information.
// The values can be set at build time using ldflags:
//
//	go build -ldflags "-X github.com/ramonehamilton/deck-analyzer/internal/version.Version=v1.2.3"
package version

import (
	"fmt"
	"runtime"
)

// Build information, overridden at build time using ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// GetVersion returns the current application version.
func GetVersion() string {
	return Version
}

// Info returns a multi-line description of the build.
func Info() string {
	return fmt.Sprintf("Version: %s\nGit commit: %s\nBuild date: %s\nGo version: %s\n",
		Version, GitCommit, BuildDate, runtime.Version())
}
