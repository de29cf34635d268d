// SPDX-License-Identifier: MIT
package build

import (
	"os"
	"testing"
)

var (
	origName    string
	origTime    string
	origCommit  string
	origVersion string
	origFlags   Info
)

func TestMain(m *testing.M) {
	origName = buildName
	origTime = buildTime
	origCommit = buildCommit
	origVersion = buildVersion
	origFlags = *buildFlags

	exitCode := m.Run()

	buildName = origName
	buildTime = origTime
	buildCommit = origCommit
	buildVersion = origVersion
	*buildFlags = origFlags

	os.Exit(exitCode)
}

func TestInitialize(t *testing.T) {
	tests := []struct {
		name        string
		buildName   string
		buildTime   string
		buildCommit string
		buildVer    string
		wantErrMsg  string
		wantVersion string
	}{
		{"Development build", "", "", "", "", "", "dev"},
		{"Missing BuildName", "", "2025-04-13", "abcdef123", "v1.0.0", "BuildName is required", ""},
		{"Missing BuildTime", "discolight", "", "abcdef123", "v1.0.0", "BuildTime is required", ""},
		{"Missing BuildCommit", "discolight", "2025-04-13", "", "v1.0.0", "BuildCommit is required", ""},
		{"Missing BuildVersion", "discolight", "2025-04-13", "abcdef123", "", "BuildVersion is required", ""},
		{"Success Case", "discolight", "2025-04-13", "abcdef123", "v1.0.0", "", "v1.0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buildFlags = defaultInfo()
			buildName = tt.buildName
			buildTime = tt.buildTime
			buildCommit = tt.buildCommit
			buildVersion = tt.buildVer

			err := Initialize()

			if tt.wantErrMsg != "" {
				if err == nil || err.Error() != tt.wantErrMsg {
					t.Errorf("Initialize() error = %v, want %v", err, tt.wantErrMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("Initialize() unexpected error: %v", err)
			}
			if got := GetBuildFlags().Version; got != tt.wantVersion {
				t.Errorf("Version = %q, want %q", got, tt.wantVersion)
			}
			if GetBuildFlags().Name != "discolight" {
				t.Errorf("Name = %q", GetBuildFlags().Name)
			}
		})
	}
}

func TestInfoString(t *testing.T) {
	info := Info{Version: "v1.0.0", Commit: "abcdef1", Time: "2025-04-13"}
	if got, want := info.String(), "v1.0.0 (commit abcdef1, built 2025-04-13)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
