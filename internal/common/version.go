package common

import (
	"fmt"
	"runtime"
)

// Set with -ldflags "-X github.com/ternarybob/treatyview/internal/common.Version=..."
var (
	Version   = "dev"
	Build     = "unknown"
	GitCommit = "unknown"
)

// VersionInfo is the build description served by /api/version
type VersionInfo struct {
	Version   string `json:"version"`
	Build     string `json:"build"`
	GitCommit string `json:"git_commit"`
	GoVersion string `json:"go_version"`
}

// GetVersion returns the current version string
func GetVersion() string {
	return Version
}

// GetVersionInfo returns the full build description
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:   Version,
		Build:     Build,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
	}
}

// GetFullVersion returns version with build info on one line
func GetFullVersion() string {
	return fmt.Sprintf("%s (build: %s, commit: %s, %s)", Version, Build, GitCommit, runtime.Version())
}
