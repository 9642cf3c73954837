// Package version reports build metadata for the polish binary.
package version

import (
	"runtime"
	"runtime/debug"
	"slices"
)

// version is overridden at link time with -ldflags "-X ...version.version=v1.2.3".
var version = "dev"

// Version returns the semantic version string.
func Version() string {
	return version
}

// GoVersion returns the Go toolchain version used for the build.
func GoVersion() string {
	return runtime.Version()
}

// Info holds structured version information for machine-readable output.
type Info struct {
	Version   string   `json:"version"`
	Platform  Platform `json:"platform"`
	GoVersion string   `json:"goVersion"`
	GitCommit string   `json:"gitCommit,omitempty"`
	Modified  bool     `json:"modified,omitempty"`
}

// Platform describes the OS and architecture.
type Platform struct {
	OS   string `json:"os"`
	Arch string `json:"arch"`
}

// String renders the one-line form printed by "polish version".
func (i Info) String() string {
	s := "polish " + i.Version
	if i.GitCommit != "" {
		s += " (" + i.GitCommit
		if i.Modified {
			s += ", modified"
		}
		s += ")"
	}
	return s + " " + i.GoVersion + " " + i.Platform.OS + "/" + i.Platform.Arch
}

// GetInfo returns structured version information.
func GetInfo() Info {
	info := Info{
		Version:   Version(),
		Platform:  Platform{OS: runtime.GOOS, Arch: runtime.GOARCH},
		GoVersion: GoVersion(),
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	setting := func(key string) string {
		if idx := slices.IndexFunc(bi.Settings, func(s debug.BuildSetting) bool {
			return s.Key == key
		}); idx >= 0 {
			return bi.Settings[idx].Value
		}
		return ""
	}
	commit := setting("vcs.revision")
	if len(commit) > 12 {
		commit = commit[:12]
	}
	info.GitCommit = commit
	info.Modified = setting("vcs.modified") == "true"
	return info
}
