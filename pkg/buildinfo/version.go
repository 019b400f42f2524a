// Package buildinfo holds the version stamped into the gemdeps binary and
// printed by `gemdeps --version`.
//
// Release builds set the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/gemdeps/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/gemdeps/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/gemdeps/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/gemdeps
//
// A plain `go build` reports version "dev".
package buildinfo

import "fmt"

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"

	// Commit is the git revision the binary was built from.
	Commit = "none"

	// Date is the UTC build time.
	Date = "unknown"
)

// String returns the version line without the program name, e.g.
// "v0.3.0 (commit 1a2b3c4, built 2026-01-02T15:04:05Z)".
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date)
}

// Template returns the cobra version template for the root command.
func Template() string {
	return "{{.Name}} " + String() + "\n"
}
