package deps

import (
	"slices"
)

// DefaultExcludedGroups lists the Bundler groups that never count as runtime
// dependencies.
var DefaultExcludedGroups = []string{
	"development",
	"guard",
	"packaging",
	"release",
	"system_tests",
	"test",
}

// DefaultGroup is the group Bundler assigns to declarations outside any
// group block.
const DefaultGroup = "default"

// Options configures extraction and closure walking.
type Options struct {
	// ExcludedGroups drops declarations tagged with any of these groups.
	// A nil slice means DefaultExcludedGroups; an empty non-nil slice
	// excludes nothing.
	ExcludedGroups []string
	// IncludeSeeds makes the closure walk emit each runtime seed before its
	// dependencies. By default seeds are only looked up and never emitted.
	IncludeSeeds bool
	// Logger receives debug-level progress messages (optional).
	Logger func(string, ...any)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.ExcludedGroups == nil {
		opts.ExcludedGroups = slices.Clone(DefaultExcludedGroups)
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}

// Declaration is a single `gem` line of a manifest.
type Declaration struct {
	Name         string   // Gem name
	Requirements []string // Version requirements as written (e.g. "~> 7.0")
	Groups       []string // Groups the gem belongs to (at least "default")
	Platforms    []string // Platforms the gem is restricted to; empty means all
	Source       string   // Alternate source (git URL, path) if any
	Line         int      // 1-based line of the declaration

	// ShouldInclude reports whether the declaration applies to the current
	// platform and environment. It is computed by the manifest parser.
	ShouldInclude bool
}

// InGroup reports whether the declaration is tagged with any of groups.
func (d Declaration) InGroup(groups ...string) bool {
	for _, g := range groups {
		if slices.Contains(d.Groups, g) {
			return true
		}
	}
	return false
}

// Manifest is the parsed form of a Gemfile.
type Manifest struct {
	Path         string        // Path the manifest was read from, if any
	Declarations []Declaration // Declarations in file order, one per gem statement
}

// Names returns the declared gem names in declaration order. A gem declared
// twice appears twice.
func (m *Manifest) Names() []string {
	names := make([]string, len(m.Declarations))
	for i, d := range m.Declarations {
		names[i] = d.Name
	}
	return names
}

// Package is a single resolved spec from a lockfile.
type Package struct {
	Name         string   // Gem name
	Version      string   // Resolved version without platform suffix
	Platform     string   // Platform suffix of the spec ("" for pure ruby)
	Source       string   // Lockfile section the spec came from (GEM, GIT, PATH)
	Dependencies []string // Names of direct dependencies, in lockfile order
}

// Entry is one line of output: a package reached by a walk.
type Entry struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	Depth   int    `json:"depth" yaml:"depth"`
	Parent  string `json:"parent,omitempty" yaml:"parent,omitempty"`
}

// String formats the entry as "name version", or just the name when no
// version is known.
func (e Entry) String() string {
	if e.Version == "" {
		return e.Name
	}
	return e.Name + " " + e.Version
}
