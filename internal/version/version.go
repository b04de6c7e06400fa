package version

// Version information
var (
	// Version is the current version of logemit
	Version = "0.3.0-dev"
	// BuildDate is the date when the binary was built
	BuildDate = "undefined"
	// CommitHash is the git commit hash when the binary was built
	CommitHash = "undefined"
)

// Info is the machine-readable form of the build information.
type Info struct {
	Version    string `json:"version"`
	BuildDate  string `json:"build_date"`
	CommitHash string `json:"commit"`
}

// Get returns the build information as a struct.
func Get() Info {
	return Info{Version: Version, BuildDate: BuildDate, CommitHash: CommitHash}
}

// VersionInfo returns formatted version information
func VersionInfo() string {
	return "logemit version " + Version + " (build: " + BuildDate + ", commit: " + CommitHash + ")"
}
