package version

import "fmt"

// These variables are set via ldflags during build
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info describes the running build
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"commit"`
	BuildDate string `json:"built"`
}

// Get returns the build metadata
func Get() Info {
	return Info{Version: Version, GitCommit: GitCommit, BuildDate: BuildDate}
}

// GetVersion returns the version string
func GetVersion() string {
	return Version
}

// GetFullVersion returns a full version string with commit and date
func GetFullVersion() string {
	return Get().String()
}

func (i Info) String() string {
	if i.Version == "dev" {
		return "dev"
	}
	return fmt.Sprintf("%s (commit %s, built %s)", i.Version, i.GitCommit, i.BuildDate)
}
