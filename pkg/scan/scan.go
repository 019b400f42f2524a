// Package scan finds Bundler projects below a directory and processes them
// concurrently.
//
// A project is a directory holding a Gemfile, a Gemfile.lock, or both
// (gems.rb and gems.locked count too). A directory with both files is one
// project, not two.
//
//	projects, err := scan.Find(ctx, ".", scan.Options{Ignore: []string{"legacy/**"}})
//	lists, err := scan.Each(ctx, projects, 4, func(ctx context.Context, p scan.Project) ([]deps.Entry, error) {
//	    ...
//	})
package scan

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/gemdeps/pkg/deps"
	"github.com/matzehuels/gemdeps/pkg/deps/ruby"
	"github.com/matzehuels/gemdeps/pkg/errors"
	"github.com/matzehuels/gemdeps/pkg/observability"
)

// DefaultIgnoreDirs are directory names never descended into. Test and
// example trees often carry fixture Gemfiles that are not part of the
// shipped application.
var DefaultIgnoreDirs = []string{
	".git",
	"docs",
	"examples",
	"node_modules",
	"spec",
	"test",
	"tests",
	"vendor",
}

// Options configures [Find].
type Options struct {
	// IgnoreDirs are directory base names to skip. nil means
	// DefaultIgnoreDirs; an empty non-nil slice skips nothing.
	IgnoreDirs []string
	// Ignore are doublestar patterns matched against slash-separated paths
	// relative to the root, e.g. "legacy/**" or "**/fixtures".
	Ignore []string
	// Logger receives debug messages (optional).
	Logger func(string, ...any)
}

// Project is a directory holding a Bundler manifest and/or lockfile.
type Project struct {
	Dir      string // Directory path as found under the root
	Rel      string // Dir relative to the root, "." for the root itself
	Manifest string // Gemfile path, or "" if there is none
	Lockfile string // Gemfile.lock path, or "" if there is none
}

// Find walks root and returns every project in lexical path order.
func Find(ctx context.Context, root string, opts Options) ([]Project, error) {
	if opts.IgnoreDirs == nil {
		opts.IgnoreDirs = DefaultIgnoreDirs
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	for _, p := range opts.Ignore {
		if !doublestar.ValidatePattern(p) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid ignore pattern %q", p)
		}
	}

	var projects []Project
	seen := make(map[string]bool)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel != "." && ignored(filepath.ToSlash(rel), opts.Ignore) {
			opts.Logger("skipping %s (ignore pattern)", rel)
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && slices.Contains(opts.IgnoreDirs, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		name := d.Name()
		if !slices.Contains(ruby.ManifestNames, name) && !slices.Contains(ruby.LockfileNames, name) {
			return nil
		}

		// Gemfile and Gemfile.lock of the same directory are one project.
		dir := filepath.Dir(path)
		if seen[dir] {
			return nil
		}
		seen[dir] = true

		relDir, _ := filepath.Rel(root, dir)
		p := Project{
			Dir:      dir,
			Rel:      relDir,
			Manifest: ruby.FindManifest(dir),
			Lockfile: ruby.FindLockfile(dir),
		}
		projects = append(projects, p)
		observability.Scan().OnProjectFound(ctx, p.Rel)
		opts.Logger("found project %s", p.Rel)
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	return projects, nil
}

func ignored(rel string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// Each runs fn for every project with at most jobs concurrent calls and
// returns the results in project order. The first error cancels the
// remaining calls and is returned wrapped with the project path.
func Each(ctx context.Context, projects []Project, jobs int, fn func(context.Context, Project) ([]deps.Entry, error)) ([][]deps.Entry, error) {
	if jobs < 1 {
		jobs = 1
	}

	results := make([][]deps.Entry, len(projects))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(jobs)

	for i, p := range projects {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			res, err := fn(ctx, p)
			observability.Scan().OnProjectComplete(ctx, p.Rel, len(res), time.Since(start), err)
			if err != nil {
				return fmt.Errorf("%s: %w", p.Rel, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
