package buildinfo

import (
	"runtime/debug"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResolve(t *testing.T) {
	stamped := &debug.BuildInfo{
		GoVersion: "go1.24.0",
		Main:      debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2024-05-01T12:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	tests := []struct {
		name string
		bi   *debug.BuildInfo
		want Info
	}{
		{"no metadata", nil, Info{Version: "dev", Commit: "none", Date: "unknown"}},
		{"devel build", &debug.BuildInfo{GoVersion: "go1.24.0", Main: debug.Module{Version: "(devel)"}},
			Info{Version: "dev", Commit: "none", Date: "unknown", GoVersion: "go1.24.0"}},
		{"go install", stamped,
			Info{Version: "v0.3.1", Commit: "abc123-dirty", Date: "2024-05-01T12:00:00Z", GoVersion: "go1.24.0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, resolve(tt.bi)); diff != "" {
				t.Errorf("resolve() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveLdflagsWin(t *testing.T) {
	defer func(v, c, d string) { Version, Commit, Date = v, c, d }(Version, Commit, Date)
	Version, Commit, Date = "v1.0.0", "deadbeef", "2024-06-01T00:00:00Z"

	got := resolve(&debug.BuildInfo{
		Main:     debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}, {Key: "vcs.modified", Value: "true"}},
	})
	want := Info{Version: "v1.0.0", Commit: "deadbeef", Date: "2024-06-01T00:00:00Z"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("resolve() mismatch (-want +got):\n%s", diff)
	}
}
