package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/gemdeps/internal/config"
	"github.com/matzehuels/gemdeps/pkg/io"
	"github.com/matzehuels/gemdeps/pkg/pipeline"
)

// listOpts holds the flags shared by list, lock, scan and graph.
type listOpts struct {
	format        string
	excludeGroups []string
	includeSeeds  bool
	platform      string
	windows       bool
	noColor       bool

	hasFormat bool
}

// register adds the shared flags to cmd. Listing commands also get
// --format; graph registers its own.
func (o *listOpts) register(cmd *cobra.Command, withFormat bool) {
	flags := cmd.Flags()
	if withFormat {
		o.hasFormat = true
		flags.StringVarP(&o.format, "format", "f", io.FormatText, "output format: text, json, yaml, purl, tree")
		flags.BoolVar(&o.noColor, "no-color", false, "disable colors in tree output")
	}
	flags.StringSliceVar(&o.excludeGroups, "exclude-group", nil, "Bundler group to leave out (repeatable; replaces the default list)")
	flags.BoolVar(&o.includeSeeds, "include-seeds", false, "also print the gems declared in the Gemfile")
	flags.StringVar(&o.platform, "platform", "", "Ruby engine the Gemfile is evaluated for: mri, jruby, truffleruby")
	flags.BoolVar(&o.windows, "windows", false, "evaluate platform blocks for a Windows host")
}

// settings is the outcome of merging flags, config file and defaults.
type settings struct {
	cfg      *config.Config
	format   string
	pipeline pipeline.Options
	write    io.WriteOptions
}

// resolve loads the config for projectDir and applies the flags the user
// set on top of it.
func (c *CLI) resolve(cmd *cobra.Command, o *listOpts, projectDir string) (*settings, error) {
	cfg, err := config.Resolve(c.configPath, projectDir)
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		loggerFromContext(cmd.Context()).Debug("loaded config", "path", cfg.Path)
	}

	flags := cmd.Flags()
	if o.hasFormat && flags.Changed("format") {
		cfg.Format = o.format
	}
	if flags.Changed("exclude-group") {
		cfg.ExcludeGroups = o.excludeGroups
	}
	if flags.Changed("include-seeds") {
		cfg.IncludeSeeds = o.includeSeeds
	}
	if flags.Changed("platform") {
		cfg.Platform = o.platform
	}
	if flags.Changed("windows") {
		cfg.Windows = o.windows
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// An explicit empty list excludes nothing; nil falls back to the defaults.
	excluded := cfg.ExcludeGroups
	if excluded == nil && (flags.Changed("exclude-group") || cfg.IsSet(config.KeyExcludeGroups)) {
		excluded = []string{}
	}
	return &settings{
		cfg:    cfg,
		format: cfg.Format,
		pipeline: pipeline.Options{
			ExcludedGroups: excluded,
			IncludeSeeds:   cfg.IncludeSeeds,
			Env:            cfg.Environment(),
			Logger:         loggerFromContext(cmd.Context()),
		},
		write: io.WriteOptions{Color: !o.noColor && isTerminal(cmd.OutOrStdout())},
	}, nil
}
