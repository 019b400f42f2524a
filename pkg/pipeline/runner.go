package pipeline

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gemdeps/pkg/deps"
	"github.com/matzehuels/gemdeps/pkg/deps/ruby"
	"github.com/matzehuels/gemdeps/pkg/errors"
	"github.com/matzehuels/gemdeps/pkg/observability"
)

// Runner executes pipeline runs. It keeps no per-run state, so one Runner
// can serve concurrent runs with different options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger means log.Default().
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// List reports the runtime dependencies of the project in opts.Dir.
//
// Without a Gemfile the result is empty. Without a lockfile the runtime
// seeds are reported unversioned. Otherwise the seeds are resolved against
// the lockfile and their transitive closure is reported. Only a malformed
// Gemfile or lockfile is an error.
func (r *Runner) List(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	dopts := opts.depsOptions()

	manifest := ruby.FindManifest(opts.Dir)
	if manifest == "" {
		opts.Logger.Debug("no Gemfile, nothing to list", "dir", opts.Dir)
		return &Result{Mode: ModeEmpty}, nil
	}

	parseStart := time.Now()
	mres, err := parseFile(ctx, manifest, opts.Env, dopts)
	if err != nil {
		return nil, err
	}
	res := &Result{Manifest: manifest}
	res.Stats.Declarations = len(mres.Manifest.Declarations)

	lockfile := ruby.LockfileFor(manifest)
	var lres *deps.ManifestResult
	if exists(lockfile) {
		if lres, err = parseFile(ctx, lockfile, opts.Env, dopts); err != nil {
			return nil, err
		}
		res.Lockfile = lockfile
		res.Graph = lres.Graph
		res.Stats.Packages = lres.Graph.Len()
	} else {
		opts.Logger.Debug("no lockfile, listing declared gems only", "lockfile", lockfile)
	}
	res.Stats.ParseTime = time.Since(parseStart)

	opts.Logger.Debug("parsed project",
		"declarations", res.Stats.Declarations,
		"packages", res.Stats.Packages,
		"duration", res.Stats.ParseTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resolveStart := time.Now()
	res.Seeds = deps.ExtractRuntimeDeps(mres.Manifest, dopts.ExcludedGroups)
	observability.Pipeline().OnResolveStart(ctx, len(res.Seeds))

	if res.Graph != nil {
		res.Mode = ModeClosure
		res.Entries = deps.ResolveClosure(res.Graph, res.Seeds, dopts)
	} else {
		res.Mode = ModeDirect
		res.Entries = deps.DirectOnly(res.Seeds)
	}
	res.Stats.ResolveTime = time.Since(resolveStart)
	observability.Pipeline().OnResolveComplete(ctx, len(res.Seeds), len(res.Entries), res.Stats.ResolveTime)

	opts.Logger.Debug("resolved runtime dependencies",
		"mode", res.Mode,
		"seeds", len(res.Seeds),
		"entries", len(res.Entries),
		"duration", res.Stats.ResolveTime)

	return res, nil
}

// Lock reports every spec of the lockfile at path. The file must exist.
func (r *Runner) Lock(ctx context.Context, path string, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	if !exists(path) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "lockfile %s does not exist", path)
	}

	start := time.Now()
	lres, err := parseFile(ctx, path, opts.Env, opts.depsOptions())
	if err != nil {
		return nil, err
	}
	if lres.Graph == nil {
		return nil, errors.New(errors.ErrCodeInvalidLockfile, "%s is not a lockfile", path)
	}

	res := &Result{
		Mode:     ModeLockfile,
		Lockfile: path,
		Graph:    lres.Graph,
		Entries:  deps.AllPackages(lres.Graph),
	}
	res.Stats.Packages = lres.Graph.Len()
	res.Stats.ParseTime = time.Since(start)

	opts.Logger.Debug("parsed lockfile", "path", path, "packages", res.Stats.Packages, "duration", res.Stats.ParseTime)
	return res, nil
}

// Project lists a scanned project: the closure when it has a Gemfile, every
// locked spec when it only has a lockfile.
func (r *Runner) Project(ctx context.Context, dir, lockfile string, opts Options) (*Result, error) {
	if ruby.FindManifest(dir) == "" && lockfile != "" {
		return r.Lock(ctx, lockfile, opts)
	}
	opts.Dir = dir
	return r.List(ctx, opts)
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func exists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
