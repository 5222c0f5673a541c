package version

// Version contains the release tool version.
// This should be set via build-time ldflags in production:
// go build -ldflags "-X github.com/underrout/callisto-release/internal/version.Version=v1.0.0".
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by --version.
func String() string {
	return Version + " (commit " + GitCommit + ", built " + BuildTime + ")"
}
