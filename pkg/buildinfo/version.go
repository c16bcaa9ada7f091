// Package buildinfo identifies the texgraph binary that produced an
// artifact.
//
// Release builds stamp the variables below with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/texgraph/pkg/buildinfo.Version=v0.4.0 \
//	    -X github.com/matzehuels/texgraph/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/texgraph/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Binaries from plain `go install` carry no stamps; [Get] then falls back to
// the module version and VCS settings the toolchain embeds.
package buildinfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Stamped by ldflags.
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// Info is the resolved build identity.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	Date      string `json:"date,omitempty"`
	Modified  bool   `json:"modified,omitempty"`
	GoVersion string `json:"go"`
}

var readBuildInfo = debug.ReadBuildInfo

// Get merges the ldflags stamps with the embedded build info. Stamps win.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date, GoVersion: runtime.Version()}
	bi, ok := readBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == "" {
				info.Date = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// ShortCommit is the first twelve characters of the commit, with a
// "-dirty" suffix for builds from a modified tree.
func (i Info) ShortCommit() string {
	c := i.Commit
	if len(c) > 12 {
		c = c[:12]
	}
	if c != "" && i.Modified {
		c += "-dirty"
	}
	return c
}

// String is the multi-line form printed by `texgraph --version`.
func (i Info) String() string {
	s := fmt.Sprintf("texgraph %s", i.Version)
	if c := i.ShortCommit(); c != "" {
		s += "\ncommit: " + c
	}
	if i.Date != "" {
		s += "\nbuilt: " + i.Date
	}
	return s + "\n" + i.GoVersion
}

// Template returns the version template for cobra.
func Template() string { return Get().String() + "\n" }
