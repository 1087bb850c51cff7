// Package version reports the build identity of the astviewer binary.
package version

import (
	"runtime/debug"
	"sync"
)

// Build metadata, overridden at link time with -ldflags "-X".
//
//nolint:gochecknoglobals // Set by the linker.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

const revisionLength = 12

var initOnce sync.Once //nolint:gochecknoglobals // Guards InitBinaryVersion.

// InitBinaryVersion fills unset metadata from the module build info, which
// is available for binaries built with go install.
func InitBinaryVersion() {
	initOnce.Do(func() {
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}

		apply(info)
	})
}

func apply(info *debug.BuildInfo) {
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if Commit == "none" {
				Commit = setting.Value[:min(len(setting.Value), revisionLength)]
			}
		case "vcs.time":
			if Date == "unknown" {
				Date = setting.Value
			}
		}
	}
}

// String renders the metadata on one line.
func String() string {
	return Version + " (commit: " + Commit + ", built: " + Date + ")"
}
