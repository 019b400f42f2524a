package deps

import (
	"fmt"
	"path/filepath"
)

// ManifestParser reads dependency information from local manifest files.
type ManifestParser interface {
	// Parse reads the file at path and returns its structured form.
	Parse(path string, opts Options) (*ManifestResult, error)
	// Supports reports whether this parser handles the given filename.
	Supports(filename string) bool
	// Type returns the manifest type identifier (e.g., "Gemfile").
	Type() string
	// IncludesTransitive reports whether the file contains the full
	// transitive closure (like lock files) or just direct dependencies.
	IncludesTransitive() bool
}

// ManifestResult holds the parsed data from a manifest or lock file.
// Exactly one of Manifest and Graph is set, depending on IncludesTransitive.
type ManifestResult struct {
	Manifest           *Manifest // Declared dependencies (Gemfile)
	Graph              *Graph    // Resolved package graph (Gemfile.lock)
	Type               string    // Parser type that produced this result
	IncludesTransitive bool      // Whether Graph holds the full closure
}

// DetectManifest finds a parser that supports the given file path.
// Returns an error if no parser matches.
func DetectManifest(path string, parsers ...ManifestParser) (ManifestParser, error) {
	name := filepath.Base(path)
	for _, p := range parsers {
		if p.Supports(name) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("unsupported manifest: %s", name)
}
