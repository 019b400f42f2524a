package pipeline

import (
	"github.com/matzehuels/gemdeps/pkg/dag"
	"github.com/matzehuels/gemdeps/pkg/errors"
)

// ValidateGraphFormat checks that format is a graph output format.
func ValidateGraphFormat(format string) error {
	switch format {
	case FormatDOT, FormatSVG:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unsupported graph format %q (want %s or %s)", format, FormatDOT, FormatSVG)
}

// ClosureGraph returns the part of the lockfile graph the listing covers:
// the seeds found in the lockfile plus every emitted package, with the
// edges between them.
//
// Without a lockfile there are no edges to draw, so the graph holds one
// node per entry.
func ClosureGraph(res *Result) *dag.DAG {
	if res.Graph == nil {
		g := dag.New(nil)
		for _, e := range res.Entries {
			_ = g.AddNode(dag.Node{ID: e.Name, Meta: dag.Metadata{}})
		}
		return g
	}
	if res.Mode == ModeLockfile {
		return res.Graph.DAG()
	}

	ids := make([]string, 0, len(res.Seeds)+len(res.Entries))
	for _, s := range res.Seeds {
		if res.Graph.Has(s) {
			ids = append(ids, s)
		}
	}
	for _, e := range res.Entries {
		ids = append(ids, e.Name)
	}
	return res.Graph.DAG().Subgraph(ids)
}
