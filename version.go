/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapstore

import (
	"fmt"
	"runtime"
)

// Version information set by build flags:
//
//	go build -ldflags "-X github.com/suparena/mapstore.GitCommit=$(git rev-parse --short HEAD)"
var (
	// Version is the semantic version of mapstore
	Version = "0.1.0"

	GitCommit = "unknown"
	BuildDate = "unknown"

	// GoVersion defaults to the running toolchain
	GoVersion = runtime.Version()
)

// VersionInfo contains version information
type VersionInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
}

// GetVersionInfo returns the version information
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: GoVersion,
	}
}

func (v VersionInfo) String() string {
	return fmt.Sprintf("mapstore %s (commit %s, built %s, %s)", v.Version, v.GitCommit, v.BuildDate, v.GoVersion)
}
