package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time with -ldflags "-X".
var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// Info is the build information reported by /info and `containerd version`.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
	GoVersion string `json:"go_version"`
	Dirty     bool   `json:"dirty"`
}

// Get returns build information, filling gaps from the embedded VCS stamp.
func Get() Info {
	info := Info{Version: Version, GitCommit: GitCommit, BuildTime: BuildTime}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = shortCommit(s.Value)
			}
		case "vcs.time":
			if info.BuildTime == "" {
				info.BuildTime = s.Value
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
	return info
}

// String renders version-commit[-dirty].
func (i Info) String() string {
	if i.GitCommit == "" {
		return i.Version
	}
	if i.Dirty {
		return fmt.Sprintf("%s-%s-dirty", i.Version, i.GitCommit)
	}
	return fmt.Sprintf("%s-%s", i.Version, i.GitCommit)
}

func shortCommit(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}
