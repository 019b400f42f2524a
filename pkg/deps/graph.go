package deps

import (
	"github.com/matzehuels/gemdeps/pkg/dag"
)

// Graph is the resolved package graph of a lockfile: every spec keyed by
// name, with edges to its direct dependencies in lockfile order.
//
// A Graph is read-only once built and safe for concurrent readers.
type Graph struct {
	g          *dag.DAG
	unresolved map[string][]string
}

// NewGraph builds a Graph from packages in lockfile order.
//
// The first package with a given name wins; later ones (typically platform
// variants of the same gem) are ignored. Dependencies naming a package that
// is not in pkgs get no edge and are reported by [Graph.Unresolved].
func NewGraph(pkgs []Package) *Graph {
	g := dag.New(nil)
	for _, p := range pkgs {
		meta := dag.Metadata{"version": p.Version}
		if p.Platform != "" {
			meta["platform"] = p.Platform
		}
		if p.Source != "" {
			meta["source"] = p.Source
		}
		_ = g.AddNode(dag.Node{ID: p.Name, Meta: meta})
	}

	unresolved := make(map[string][]string)
	linked := make(map[string]bool, len(pkgs))
	for _, p := range pkgs {
		if linked[p.Name] {
			continue
		}
		linked[p.Name] = true

		seen := make(map[string]bool, len(p.Dependencies))
		for _, dep := range p.Dependencies {
			if seen[dep] {
				continue
			}
			seen[dep] = true
			if err := g.AddEdge(dag.Edge{From: p.Name, To: dep}); err != nil {
				unresolved[p.Name] = append(unresolved[p.Name], dep)
			}
		}
	}

	return &Graph{g: g, unresolved: unresolved}
}

// Has reports whether the graph contains name.
func (g *Graph) Has(name string) bool {
	_, ok := g.g.Node(name)
	return ok
}

// Version returns the resolved version of name, or "" if absent.
func (g *Graph) Version(name string) string {
	n, ok := g.g.Node(name)
	if !ok {
		return ""
	}
	v, _ := n.Meta["version"].(string)
	return v
}

// Dependencies returns the resolved direct dependencies of name in lockfile
// order. The returned slice must not be modified.
func (g *Graph) Dependencies(name string) []string {
	return g.g.Children(name)
}

// Packages returns every package in lockfile order.
func (g *Graph) Packages() []Package {
	nodes := g.g.Nodes()
	pkgs := make([]Package, len(nodes))
	for i, n := range nodes {
		pkgs[i] = g.pkg(n)
	}
	return pkgs
}

// Len returns the number of packages in the graph.
func (g *Graph) Len() int { return g.g.NodeCount() }

// Unresolved returns, per package, the dependency names that are missing
// from the lockfile.
func (g *Graph) Unresolved() map[string][]string { return g.unresolved }

// DAG exposes the underlying graph for rendering and validation.
// Callers must not mutate it.
func (g *Graph) DAG() *dag.DAG { return g.g }

func (g *Graph) pkg(n *dag.Node) Package {
	version, _ := n.Meta["version"].(string)
	platform, _ := n.Meta["platform"].(string)
	source, _ := n.Meta["source"].(string)
	return Package{
		Name:         n.ID,
		Version:      version,
		Platform:     platform,
		Source:       source,
		Dependencies: g.g.Children(n.ID),
	}
}
