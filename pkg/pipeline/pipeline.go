// Package pipeline runs the gemdeps listing pipeline for one project.
//
// The CLI and the directory scanner both go through this package so a
// project is listed the same way no matter how it was reached.
//
// # Stages
//
//  1. Parse: read the Gemfile (and Gemfile.lock, when present)
//  2. Resolve: extract the runtime seeds and walk their closure over the
//     lockfile graph, or fall back to the bare seed names
//  3. Render: write the entries in one of the output formats
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	res, err := runner.List(ctx, pipeline.Options{Dir: "."})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = runner.Write(ctx, os.Stdout, res, "text", io.WriteOptions{})
//
// A lockfile on its own is listed with [Runner.Lock], which reports every
// locked spec.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gemdeps/pkg/deps"
	"github.com/matzehuels/gemdeps/pkg/deps/ruby"
	"github.com/matzehuels/gemdeps/pkg/errors"
)

// Mode tells which path a run took.
type Mode string

const (
	// ModeClosure: Gemfile and lockfile, seeds resolved and walked.
	ModeClosure Mode = "closure"
	// ModeDirect: Gemfile only, seeds reported without versions.
	ModeDirect Mode = "direct"
	// ModeLockfile: every spec of a lockfile.
	ModeLockfile Mode = "lockfile"
	// ModeEmpty: no Gemfile in the directory.
	ModeEmpty Mode = "empty"
)

// Graph output formats handled by [RenderGraph].
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// Options configures a pipeline run.
type Options struct {
	// Dir is the project directory for [Runner.List] (default ".").
	Dir string

	// ExcludedGroups drops declarations in these groups. nil means
	// deps.DefaultExcludedGroups.
	ExcludedGroups []string

	// IncludeSeeds emits the runtime seeds themselves ahead of their
	// dependencies.
	IncludeSeeds bool

	// Env is the platform the Gemfile is evaluated for. The zero value is
	// MRI on a non-Windows host with no environment variables set.
	Env ruby.Environment

	// Logger receives progress at debug level. Defaults to a discarding
	// logger.
	Logger *log.Logger

	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Dir == "" {
		o.Dir = "."
	}
	if err := errors.ValidatePath(o.Dir); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// depsOptions converts pipeline options for the deps package, routing its
// messages to the logger.
func (o *Options) depsOptions() deps.Options {
	logger := o.Logger
	return deps.Options{
		ExcludedGroups: o.ExcludedGroups,
		IncludeSeeds:   o.IncludeSeeds,
		Logger: func(format string, args ...any) {
			logger.Debugf(format, args...)
		},
	}.WithDefaults()
}

// Result holds the outcome of a run.
type Result struct {
	Mode     Mode
	Manifest string // Gemfile path, "" if none was read
	Lockfile string // Lockfile path, "" if none was read

	// Seeds are the runtime dependency names of the Gemfile, in
	// declaration order.
	Seeds []string

	// Entries is the listing, one per package, in output order.
	Entries []deps.Entry

	// Graph is the lockfile package graph, nil without a lockfile.
	Graph *deps.Graph

	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Declarations int // gem declarations in the Gemfile
	Packages     int // specs in the lockfile
	ParseTime    time.Duration
	ResolveTime  time.Duration
}
