// Package nodelink renders dependency graphs as node-link diagrams.
//
// # Overview
//
// Gems appear as rounded boxes labelled with name and locked version,
// connected by arrows from dependent to dependency. Seeds (the runtime gems
// declared in the Gemfile) can be highlighted.
//
// # Usage
//
// Convert a DAG to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Highlight: seeds})
//	svg, err := nodelink.RenderSVG(dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: node labels include every metadata key (platform, source)
//   - Highlight: node IDs drawn with a filled, bold style
//
// # DOT Format
//
// The generated DOT uses top-to-bottom layout (rankdir=TB) and lists nodes
// and edges in graph insertion order, so the same lockfile always yields the
// same DOT text.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
package nodelink
