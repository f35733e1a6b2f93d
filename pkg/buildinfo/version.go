// Package buildinfo reports which deprecated-checker build is running.
//
// Release builds stamp the variables below with ldflags:
//
//	go build -ldflags "-X github.com/julicq/is-deprecated-or-not/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/julicq/is-deprecated-or-not/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/julicq/is-deprecated-or-not/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Binaries built with go install carry no ldflags; [Get] then falls back
// to the module version and VCS stamps the Go toolchain embeds.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// Set via ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the resolved build information.
type Info struct {
	Version   string
	Commit    string
	Date      string
	GoVersion string
}

// Get returns the ldflags values, filling the unset ones from the
// embedded build metadata when available.
func Get() Info {
	bi, _ := debug.ReadBuildInfo()
	return resolve(bi)
}

func resolve(bi *debug.BuildInfo) Info {
	info := Info{Version: Version, Commit: Commit, Date: Date}
	if bi == nil {
		return info
	}
	info.GoVersion = bi.GoVersion

	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	var dirty bool
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "none" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == "unknown" {
				info.Date = s.Value
			}
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if dirty && Commit == "none" && info.Commit != "none" {
		info.Commit += "-dirty"
	}
	return info
}

// String returns the formatted build information.
func String() string {
	info := Get()
	s := fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", info.Version, info.Commit, info.Date)
	if info.GoVersion != "" {
		s += "\ngo: " + info.GoVersion
	}
	return s
}

// Template returns the version template string for cobra.
func Template() string {
	info := Get()
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", info.Version, info.Commit, info.Date)
}
