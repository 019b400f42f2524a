package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gemdeps/pkg/deps/ruby"
	"github.com/matzehuels/gemdeps/pkg/pipeline"
	"github.com/matzehuels/gemdeps/pkg/render/nodelink"
)

// graphCommand creates the graph command: the runtime closure as a
// node-link diagram.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		opts     listOpts
		format   string
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "graph [dir|lockfile]",
		Short: "Render the runtime dependency graph as DOT or SVG",
		Long: `Render the gems that "gemdeps list" would print, together with the
declared gems and the edges between them, as a Graphviz diagram. Declared
gems are highlighted.

Given a lockfile instead of a directory, the whole lockfile graph is drawn.

Examples:
  gemdeps graph > deps.dot
  gemdeps graph --format svg -o deps.svg
  gemdeps graph Gemfile.lock --detailed`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateGraphFormat(format); err != nil {
				return err
			}
			target := "."
			if len(args) > 0 {
				target = args[0]
			}

			lockfile := isLockfile(target)
			projectDir := target
			if lockfile {
				projectDir = filepath.Dir(target)
			}
			s, err := c.resolve(cmd, &opts, projectDir)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			runner := c.newRunner()
			var res *pipeline.Result
			if lockfile {
				res, err = runner.Lock(ctx, target, s.pipeline)
			} else {
				s.pipeline.Dir = target
				res, err = runner.List(ctx, s.pipeline)
			}
			if err != nil {
				return err
			}

			out, err := runner.RenderGraph(ctx, res, format, nodelink.Options{Detailed: detailed})
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return err
			}
			loggerFromContext(ctx).Infof("Wrote %s", output)
			return nil
		},
	}

	opts.register(cmd, false)
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatDOT, "output format: dot, svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show platform and source in node labels")
	return cmd
}

// isLockfile reports whether path names an existing lockfile.
func isLockfile(path string) bool {
	fi, err := os.Stat(path)
	if err != nil || !fi.Mode().IsRegular() {
		return false
	}
	return (&ruby.GemfileLock{}).Supports(fi.Name())
}
