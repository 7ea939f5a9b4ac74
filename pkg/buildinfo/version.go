// Package buildinfo reports which build of emberview is running.
//
// Release builds stamp the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/emberview/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/emberview/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/emberview/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Unstamped builds fall back to the VCS settings the go command embeds.
package buildinfo

import (
	"runtime/debug"
	"strings"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

// revision returns Commit, or the embedded vcs.revision when Commit was
// not stamped.
func revision() string {
	if Commit != "none" && Commit != "" {
		return Commit
	}
	info, ok := readBuildInfo()
	if !ok {
		return "none"
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && s.Value != "" {
			return s.Value
		}
	}
	return "none"
}

// Template is the cobra version template.
func Template() string {
	var b strings.Builder
	b.WriteString("{{.Name}} version " + Version + "\n")
	b.WriteString("commit: " + revision() + "\n")
	b.WriteString("built: " + Date + "\n")
	return b.String()
}

// CacheScope prefixes cache keys so artifacts drawn by one build are never
// served by another. Development builds share a scope per commit.
func CacheScope() string {
	if Version != "dev" {
		return Version + ":"
	}
	rev := revision()
	if len(rev) > 7 {
		rev = rev[:7]
	}
	return "dev-" + rev + ":"
}
