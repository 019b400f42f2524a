package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"
)

// lockCommand creates the lock command: every spec of one lockfile.
func (c *CLI) lockCommand() *cobra.Command {
	var opts listOpts

	cmd := &cobra.Command{
		Use:   "lock <lockfile>",
		Short: "List every gem of a lockfile",
		Long: `List every gem recorded in a lockfile, in lockfile order, as "name version".
Groups are not applied: the lockfile does not record them. The file must
exist.

Examples:
  gemdeps lock Gemfile.lock
  gemdeps lock vendor/app/gems.locked --format purl`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			s, err := c.resolve(cmd, &opts, filepath.Dir(path))
			if err != nil {
				return err
			}

			runner := c.newRunner()
			res, err := runner.Lock(cmd.Context(), path, s.pipeline)
			if err != nil {
				return err
			}
			return runner.Write(cmd.Context(), cmd.OutOrStdout(), res, s.format, s.write)
		},
	}

	opts.register(cmd, true)
	return cmd
}
