// Package version exposes build metadata stamped in via ldflags:
//
//	go build -ldflags "-X github.com/tradinglab/marketsim/internal/version.Version=1.2.0 \
//	                   -X github.com/tradinglab/marketsim/internal/version.Commit=$(git rev-parse --short HEAD) \
//	                   -X github.com/tradinglab/marketsim/internal/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package version

import "fmt"

var (
	// Version is the release version, "dev" for unstamped builds.
	Version = "dev"

	// Commit is the short git commit hash.
	Commit = "unknown"

	// BuildTime is the UTC build timestamp in RFC 3339 form.
	BuildTime = "unknown"
)

// String formats the stamped metadata for startup logging.
func String() string {
	return fmt.Sprintf("%s (%s) built %s", Version, Commit, BuildTime)
}
