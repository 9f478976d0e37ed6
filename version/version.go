package version

import "fmt"

// Set at build time via ldflags.
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// Info holds structured version information.
type Info struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	BuildDate  string `json:"build_date"`
}

// GetCurrentVersion returns the build's version information.
func GetCurrentVersion() Info {
	return Info{
		Version:    Version,
		CommitHash: CommitHash,
		BuildDate:  BuildDate,
	}
}

func (i Info) String() string {
	return fmt.Sprintf("netbox-fixjson %s (commit %s, built %s)", i.Version, i.CommitHash, i.BuildDate)
}
