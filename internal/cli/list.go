package cli

import (
	"github.com/spf13/cobra"
)

// listCommand creates the list command: the runtime dependency closure of
// one project directory.
func (c *CLI) listCommand() *cobra.Command {
	var (
		opts  listOpts
		stats bool
	)

	cmd := &cobra.Command{
		Use:   "list [dir]",
		Short: "List the runtime dependencies of a Bundler project",
		Long: `List the runtime dependencies of the Bundler project in dir (default ".").

Gems declared in excluded groups (development, test, ...) are left out. The
remaining declarations are looked up in the lockfile and everything they
depend on is printed once, as "name version". The declared gems themselves
are not printed unless --include-seeds is given.

Without a lockfile the declared gem names are printed without versions.
Without a Gemfile nothing is printed.

Examples:
  gemdeps list
  gemdeps list path/to/app --format json
  gemdeps list --exclude-group test --exclude-group ci --include-seeds`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			s, err := c.resolve(cmd, &opts, dir)
			if err != nil {
				return err
			}
			s.pipeline.Dir = dir

			runner := c.newRunner()
			res, err := runner.List(cmd.Context(), s.pipeline)
			if err != nil {
				return err
			}
			if err := runner.Write(cmd.Context(), cmd.OutOrStdout(), res, s.format, s.write); err != nil {
				return err
			}
			if stats {
				printStats(c.Err,
					stat{len(res.Seeds), "seeds"},
					stat{res.Stats.Packages, "locked"},
					stat{len(res.Entries), "listed"})
			}
			return nil
		},
	}

	opts.register(cmd, true)
	cmd.Flags().BoolVar(&stats, "stats", false, "print counts to stderr")
	return cmd
}
