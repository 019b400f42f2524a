// Package render holds the graph renderers of gemdeps.
//
// The [nodelink] subpackage draws a dependency graph as a Graphviz
// node-link diagram, available as DOT source or as SVG rendered in-process.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Highlight: seeds})
//	svg, err := nodelink.RenderSVG(dot)
//
// [nodelink]: github.com/matzehuels/gemdeps/pkg/render/nodelink
package render
