package ruby

import (
	"os"
	"path/filepath"

	"github.com/matzehuels/gemdeps/pkg/deps"
	"github.com/matzehuels/gemdeps/pkg/errors"
)

// Manifest and lockfile names Bundler looks for, in order of preference.
var (
	ManifestNames = []string{"Gemfile", "gems.rb"}
	LockfileNames = []string{"Gemfile.lock", "gems.locked"}
)

// Gemfile parses Gemfile and gems.rb manifests.
type Gemfile struct {
	Env Environment // Platform used for ShouldInclude; zero value is MRI, non-Windows, empty environment
}

func (g *Gemfile) Type() string             { return "Gemfile" }
func (g *Gemfile) IncludesTransitive() bool { return false }
func (g *Gemfile) Supports(name string) bool {
	return name == "Gemfile" || name == "gems.rb"
}

func (g *Gemfile) Parse(path string, opts deps.Options) (*deps.ManifestResult, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := ParseGemfile(f, ParseOptions{
		Path:   path,
		Dir:    filepath.Dir(path),
		Env:    g.Env,
		Logger: opts.Logger,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse %s", path)
	}
	return &deps.ManifestResult{
		Manifest: m,
		Type:     g.Type(),
	}, nil
}

// GemfileLock parses Gemfile.lock and gems.locked files, which carry the
// full resolved closure.
type GemfileLock struct{}

func (l *GemfileLock) Type() string             { return "Gemfile.lock" }
func (l *GemfileLock) IncludesTransitive() bool { return true }
func (l *GemfileLock) Supports(name string) bool {
	return name == "Gemfile.lock" || name == "gems.locked"
}

func (l *GemfileLock) Parse(path string, opts deps.Options) (*deps.ManifestResult, error) {
	lf, err := ReadLockfile(path)
	if err != nil {
		return nil, err
	}
	opts = opts.WithDefaults()

	g := lf.Graph()
	for name, missing := range g.Unresolved() {
		opts.Logger("%s: %s depends on %v, which is not locked", path, name, missing)
	}
	if err := g.DAG().Validate(); err != nil {
		opts.Logger("%s: %v", path, err)
	}
	return &deps.ManifestResult{
		Graph:              g,
		Type:               l.Type(),
		IncludesTransitive: true,
	}, nil
}

// ReadLockfile opens and parses the lockfile at path.
func ReadLockfile(path string) (*Lockfile, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lf, err := ParseLockfile(f, path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLockfile, err, "parse %s", path)
	}
	return lf, nil
}

// LockfileFor returns the lockfile path that belongs to a manifest:
// Gemfile → Gemfile.lock, gems.rb → gems.locked.
func LockfileFor(manifest string) string {
	dir, name := filepath.Split(manifest)
	if name == "gems.rb" {
		return filepath.Join(dir, "gems.locked")
	}
	return manifest + ".lock"
}

// ManifestFor is the inverse of [LockfileFor].
func ManifestFor(lockfile string) string {
	dir, name := filepath.Split(lockfile)
	if name == "gems.locked" {
		return filepath.Join(dir, "gems.rb")
	}
	return filepath.Join(dir, "Gemfile")
}

// FindManifest returns the first manifest in dir, or "" if there is none.
func FindManifest(dir string) string {
	return findFirst(dir, ManifestNames)
}

// FindLockfile returns the first lockfile in dir, or "" if there is none.
func FindLockfile(dir string) string {
	return findFirst(dir, LockfileNames)
}

func findFirst(dir string, names []string) string {
	for _, n := range names {
		p := filepath.Join(dir, n)
		if fi, err := os.Stat(p); err == nil && fi.Mode().IsRegular() {
			return p
		}
	}
	return ""
}

func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err == nil {
		return f, nil
	}
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "%s does not exist", path)
	}
	return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
}
