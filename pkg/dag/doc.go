// Package dag provides the directed dependency graph used to hold a
// resolved lockfile.
//
// # Overview
//
// A Gemfile.lock lists every resolved gem together with the names of the gems
// it depends on. This package stores that structure as nodes (one per gem)
// and edges (gem → dependency). Unlike a plain adjacency map it preserves
// insertion order for both nodes and children, so walks over the graph are
// deterministic and follow the order in which the lockfile listed them.
//
// # Basic Usage
//
// Create a new graph with [New], add nodes with [DAG.AddNode], and edges with
// [DAG.AddEdge]. Nodes must have unique IDs and edges can only connect
// existing nodes:
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "rails", Meta: dag.Metadata{"version": "7.1.3"}})
//	g.AddNode(dag.Node{ID: "railties", Meta: dag.Metadata{"version": "7.1.3"}})
//	g.AddEdge(dag.Edge{From: "rails", To: "railties"})
//
// Query the graph with [DAG.Children], [DAG.Sources] and [DAG.Sinks]; the
// DOT renderer uses the latter two to pin roots and leaves to the top and
// bottom ranks. [DAG.Subgraph] extracts the part of a graph reachable from a
// set of packages, which is what the DOT renderer draws.
//
// # Cycles
//
// Bundler's resolver does not produce cyclic lockfiles in practice, but
// nothing in the file format prevents them. AddEdge therefore accepts edges
// that close a cycle and [DAG.Validate] reports [ErrGraphHasCycle] so callers
// can warn about it. Traversals in package deps keep their own visited set.
package dag
