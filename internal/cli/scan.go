package cli

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gemdeps/pkg/deps"
	"github.com/matzehuels/gemdeps/pkg/io"
	"github.com/matzehuels/gemdeps/pkg/observability"
	"github.com/matzehuels/gemdeps/pkg/scan"
)

// scanCommand creates the scan command: list every project below a root.
func (c *CLI) scanCommand() *cobra.Command {
	var (
		opts   listOpts
		jobs   int
		ignore []string
		pick   bool
	)

	cmd := &cobra.Command{
		Use:   "scan [root]",
		Short: "List the runtime dependencies of every Bundler project below a directory",
		Long: `Walk root (default ".") and list every directory holding a Gemfile or a
lockfile. Each project is printed under a "# <path>" header; json and yaml
print one document for all projects.

Projects with only a lockfile list every locked gem. vendor, test, spec,
docs, examples and node_modules directories are skipped, as are paths
matching --ignore patterns.

With --pick, the projects are shown in an interactive table and only the
selected one is listed.

Examples:
  gemdeps scan
  gemdeps scan ~/src --ignore 'legacy/**' --jobs 4 --format json
  gemdeps scan --pick`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}
			s, err := c.resolve(cmd, &opts, root)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("ignore") {
				s.cfg.Ignore = ignore
			}
			if cmd.Flags().Changed("jobs") {
				s.cfg.Jobs = jobs
			}
			return c.runScan(cmd, root, s, pick)
		},
	}

	opts.register(cmd, true)
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.NumCPU(), "projects processed in parallel")
	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "glob of paths to skip, relative to root (repeatable)")
	cmd.Flags().BoolVar(&pick, "pick", false, "choose one project interactively")
	return cmd
}

func (c *CLI) runScan(cmd *cobra.Command, root string, s *settings, pick bool) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	projects, err := scan.Find(ctx, root, scan.Options{
		Ignore: s.cfg.Ignore,
		Logger: func(format string, args ...any) { logger.Debugf(format, args...) },
	})
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		printWarning(c.Err, "no Bundler projects found in %s", root)
		return io.WriteReports(cmd.OutOrStdout(), s.format, nil, s.write)
	}

	if pick {
		selected, err := c.pickProject(cmd, projects)
		if err != nil || selected == nil {
			return err
		}
		projects = []scan.Project{*selected}
	}

	stop := func() {}
	if isTerminal(c.Err) {
		spinner := newSpinnerWithContext(ctx, c.Err, fmt.Sprintf("Listing %d projects", len(projects)))
		observability.SetScanHooks(&scanProgress{spinner: spinner, total: len(projects)})
		defer observability.SetScanHooks(observability.NoopScanHooks{})
		spinner.Start()
		stop = spinner.Stop
	}

	jobs := s.cfg.Jobs
	if jobs == 0 {
		jobs = runtime.NumCPU()
	}
	runner := c.newRunner()
	lists, err := scan.Each(ctx, projects, jobs, func(ctx context.Context, p scan.Project) ([]deps.Entry, error) {
		res, err := runner.Project(ctx, p.Dir, p.Lockfile, s.pipeline)
		if err != nil {
			return nil, err
		}
		return res.Entries, nil
	})
	stop()
	if err != nil {
		return err
	}

	reports := make([]io.Report, len(projects))
	for i, p := range projects {
		reports[i] = io.Report{Project: p.Rel, Dependencies: lists[i]}
	}
	prog.done(fmt.Sprintf("Scanned %d projects", len(projects)))
	return io.WriteReports(cmd.OutOrStdout(), s.format, reports, s.write)
}

// pickProject shows the interactive project table on the status writer.
// It returns nil when the user quits without choosing.
func (c *CLI) pickProject(cmd *cobra.Command, projects []scan.Project) (*scan.Project, error) {
	p := tea.NewProgram(NewProjectListModel(projects),
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(c.Err))
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	m, ok := final.(ProjectListModel)
	if !ok || m.Selected == nil {
		printWarning(c.Err, "no project selected")
		return nil, nil
	}
	return m.Selected, nil
}

// scanProgress reports scan completion on a spinner.
type scanProgress struct {
	observability.NoopScanHooks
	spinner *Spinner
	total   int
	done    atomic.Int32
}

func (p *scanProgress) OnProjectComplete(_ context.Context, _ string, _ int, _ time.Duration, _ error) {
	n := p.done.Add(1)
	p.spinner.SetMessage(fmt.Sprintf("Listing projects %d/%d", n, p.total))
}

var _ observability.ScanHooks = (*scanProgress)(nil)
