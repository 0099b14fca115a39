// Package version exposes build metadata stamped in at link time, e.g.
//
//	-ldflags "-X github.com/yolokit/yolokit/internal/version.Version=v1.2.3"
package version

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info returns the version, commit hash, and build date.
func Info() (version, commit, date string) {
	return Version, GitCommit, BuildDate
}
