// Package version holds build-time version info for regdash.
// Set via main using Set(), read from anywhere via Get().
package version

import "fmt"

// Build information, populated by Set() at startup.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// Info is a snapshot of the build information.
type Info struct {
	Version   string
	Commit    string
	BuildDate string
}

// Set stores build-time version info. Empty values keep the defaults.
// Call once from main.
func Set(v, c, d string) {
	if v != "" {
		version = v
	}
	if c != "" {
		commit = c
	}
	if d != "" {
		buildDate = d
	}
}

// Get returns the current build information.
func Get() Info {
	return Info{Version: version, Commit: commit, BuildDate: buildDate}
}

func (i Info) String() string {
	return fmt.Sprintf("regdash %s (commit %s, built %s)", i.Version, i.Commit, i.BuildDate)
}
