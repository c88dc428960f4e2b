// Package build holds build information, set with -ldflags at link time, e.g.
// -X github.com/armadaproject/sweeper/internal/sweepctl/build.ReleaseVersion=v1.0.0
package build

import "runtime"

var (
	ReleaseVersion = "UNKNOWN"
	GitCommit      = "UNKNOWN"
	BuildTime      = "UNKNOWN"
	GoVersion      = runtime.Version()
)
