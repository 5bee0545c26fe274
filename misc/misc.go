// Package misc provides program identity for logs, reports and version output.
package misc

import (
	"runtime/debug"
)

// Overridable at build time with -ldflags "-X cssg/misc.Version=... -X cssg/misc.GitHash=...".
var (
	AppName = "cssg"
	Version = ""
	GitHash = ""
)

// GetAppName returns program name to be used in messages, file names and logs.
func GetAppName() string {
	return AppName
}

// GetVersion returns version set at build time or module version when program
// was installed with "go install".
func GetVersion() string {
	if len(Version) > 0 {
		return Version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && len(bi.Main.Version) > 0 {
		return bi.Main.Version
	}
	return "unknown"
}

// GetGitHash returns VCS revision recorded in the binary, shortened to 12
// characters with "*" appended when the working tree was dirty.
func GetGitHash() string {
	if len(GitHash) > 0 {
		return GitHash
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	var hash, dirty string
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			hash = s.Value
		case "vcs.modified":
			if s.Value == "true" {
				dirty = "*"
			}
		}
	}
	if len(hash) == 0 {
		return "unknown"
	}
	if len(hash) > 12 {
		hash = hash[:12]
	}
	return hash + dirty
}
