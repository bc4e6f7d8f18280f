package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func setVars(t *testing.T, version, commit, date string) {
	t.Helper()
	v, c, d := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = v, c, d })
	Version, Commit, Date = version, commit, date
}

func TestFromBuildInfo(t *testing.T) {
	tests := []struct {
		name        string
		info        debug.BuildInfo
		wantVersion string
		wantCommit  string
	}{
		{
			name: "module version and vcs",
			info: debug.BuildInfo{
				Main:     debug.Module{Version: "v0.3.0"},
				Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}, {Key: "vcs.time", Value: "2024-01-01T00:00:00Z"}},
			},
			wantVersion: "v0.3.0",
			wantCommit:  "abc123",
		},
		{
			name:        "devel build keeps dev",
			info:        debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			wantVersion: "dev",
			wantCommit:  "none",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setVars(t, "dev", "none", "unknown")
			fromBuildInfo(&tt.info)
			if Version != tt.wantVersion {
				t.Errorf("Version = %q, want %q", Version, tt.wantVersion)
			}
			if Commit != tt.wantCommit {
				t.Errorf("Commit = %q, want %q", Commit, tt.wantCommit)
			}
		})
	}
}

func TestFromBuildInfoKeepsLdflags(t *testing.T) {
	setVars(t, "dev", "deadbeef", "unknown")
	fromBuildInfo(&debug.BuildInfo{Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}}})
	if Commit != "deadbeef" {
		t.Errorf("Commit = %q, want ldflags value", Commit)
	}
}

func TestTemplate(t *testing.T) {
	setVars(t, "v1.0.0", "abc", "2024-01-01")
	if got := Template(); !strings.Contains(got, "version v1.0.0") || !strings.Contains(got, "{{.Name}}") {
		t.Errorf("Template() = %q", got)
	}
	if got := String(); got != "version: v1.0.0\ncommit: abc\nbuilt: 2024-01-01" {
		t.Errorf("String() = %q", got)
	}
}
