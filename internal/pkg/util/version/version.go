// Package version exposes build-time version information, injected with
// -ldflags at release time.
package version

import "fmt"

var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// Info holds the build identity of the running binary.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildDate string `json:"buildDate"`
}

// Get returns the build identity of the running binary.
func Get() Info {
	return Info{
		Version:   version,
		GitCommit: gitCommit,
		BuildDate: buildDate,
	}
}

func (i Info) String() string {
	return fmt.Sprintf("%s (%s, %s)", i.Version, i.gitCommitShort(), i.BuildDate)
}

func (i Info) gitCommitShort() string {
	if len(i.GitCommit) > 7 {
		return i.GitCommit[:7]
	}
	return i.GitCommit
}
