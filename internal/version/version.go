package version

import (
	"runtime"
	"time"
)

// Name is reported by /healthz and in the startup banner.
const Name = "bibliofind"

// Overridden at build time with -ldflags "-X .../internal/version.Version=v1.2.0".
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = time.Now().UTC().Format(time.RFC3339)
	GoVersion = runtime.Version()
)
