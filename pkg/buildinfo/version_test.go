package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func stubBuildInfo(t *testing.T, bi *debug.BuildInfo) {
	t.Helper()
	orig := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
	t.Cleanup(func() { readBuildInfo = orig })
}

func stamp(t *testing.T, version, commit, date string) {
	t.Helper()
	v, c, d := Version, Commit, Date
	Version, Commit, Date = version, commit, date
	t.Cleanup(func() { Version, Commit, Date = v, c, d })
}

func TestGet_FallsBackToEmbeddedInfo(t *testing.T) {
	stamp(t, "dev", "", "")
	stubBuildInfo(t, &debug.BuildInfo{
		Main: debug.Module{Version: "v0.4.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef0123"},
			{Key: "vcs.time", Value: "2026-10-01T12:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	})

	info := Get()
	if info.Version != "v0.4.1" {
		t.Errorf("Version = %q", info.Version)
	}
	if got := info.ShortCommit(); got != "0123456789ab-dirty" {
		t.Errorf("ShortCommit = %q", got)
	}
	if info.Date != "2026-10-01T12:00:00Z" {
		t.Errorf("Date = %q", info.Date)
	}
}

func TestGet_StampsWin(t *testing.T) {
	stamp(t, "v1.0.0", "cafebabe", "2026-01-02")
	stubBuildInfo(t, &debug.BuildInfo{
		Main:     debug.Module{Version: "v0.0.9"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "deadbeef"}},
	})

	info := Get()
	if info.Version != "v1.0.0" || info.Commit != "cafebabe" || info.Date != "2026-01-02" {
		t.Errorf("Get() = %+v", info)
	}
}

func TestGet_DevelBuild(t *testing.T) {
	stamp(t, "dev", "", "")
	stubBuildInfo(t, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})

	info := Get()
	if info.Version != "dev" || info.ShortCommit() != "" {
		t.Errorf("Get() = %+v", info)
	}
	out := info.String()
	if strings.Contains(out, "commit:") || strings.Contains(out, "built:") {
		t.Errorf("String() shows empty fields:\n%s", out)
	}
	if !strings.HasPrefix(Template(), "texgraph dev\n") {
		t.Errorf("Template() = %q", Template())
	}
}
