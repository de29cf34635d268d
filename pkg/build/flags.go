// SPDX-License-Identifier: MIT
//
// Package build holds build information embedded with linker flags:
//
//	go build -ldflags "-X discolight/pkg/build.buildName=discolight \
//	  -X discolight/pkg/build.buildVersion=v0.1.0 \
//	  -X discolight/pkg/build.buildCommit=$(git rev-parse --short HEAD) \
//	  -X discolight/pkg/build.buildTime=$(date -u +%FT%TZ)"
//
// Development builds run without the flags and report "dev".
package build

import "fmt"

// Info describes the running binary.
type Info struct {
	Name        string
	Description string
	Time        string
	Commit      string
	Version     string
}

// String formats the info for --version output.
func (i Info) String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", i.Version, i.Commit, i.Time)
}

// Set by -ldflags.
var (
	buildName    string
	buildTime    string
	buildCommit  string
	buildVersion string
)

var buildFlags = defaultInfo()

func defaultInfo() *Info {
	return &Info{
		Name:        "discolight",
		Description: "Audio-reactive indicator driver",
		Time:        "unknown",
		Commit:      "unknown",
		Version:     "dev",
	}
}

// Initialize copies the linker flags into the build info. A binary built
// without any flag is a development build and keeps the defaults; a
// partially flagged build is an error.
func Initialize() error {
	if buildName == "" && buildTime == "" && buildCommit == "" && buildVersion == "" {
		return nil
	}
	if buildName == "" {
		return fmt.Errorf("BuildName is required")
	}
	if buildTime == "" {
		return fmt.Errorf("BuildTime is required")
	}
	if buildCommit == "" {
		return fmt.Errorf("BuildCommit is required")
	}
	if buildVersion == "" {
		return fmt.Errorf("BuildVersion is required")
	}

	buildFlags.Name = buildName
	buildFlags.Time = buildTime
	buildFlags.Commit = buildCommit
	buildFlags.Version = buildVersion
	return nil
}

// GetBuildFlags returns the current build information.
func GetBuildFlags() *Info {
	return buildFlags
}
