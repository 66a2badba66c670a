package app

import (
	"fmt"
	"runtime"
)

// Set via ldflags, e.g.
// go build -ldflags "-X github.com/heartmarshall/teamcal-backend/internal/app.Version=1.0.0"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildVersion is the version line of startup logs.
func BuildVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s, %s)", Version, Commit, BuildTime, runtime.Version())
}

// shortVersion is reported by /health.
func shortVersion() string {
	if Commit == "unknown" || len(Commit) < 7 {
		return Version
	}
	return Version + "+" + Commit[:7]
}
