package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/gemdeps/pkg/dag"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds all node metadata to labels. When false, labels show
	// the name and version only.
	Detailed bool

	// Highlight lists node IDs drawn emphasized, typically the seeds.
	Highlight []string
}

// ToDOT converts a DAG to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(g *dag.DAG, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [color=\"#555555\", arrowsize=0.7];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs := fmtAttrs(*n, fmtLabel(*n, opts.Detailed), slices.Contains(opts.Highlight, n.ID))
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	if g.EdgeCount() > 0 {
		sources := dag.NodeIDs(g.Sources())
		var sinks []string
		for _, id := range dag.NodeIDs(g.Sinks()) {
			if !slices.Contains(sources, id) {
				sinks = append(sinks, id)
			}
		}
		writeRank(&buf, "min", sources)
		writeRank(&buf, "max", sinks)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// writeRank pins ids to the top (min) or bottom (max) rank, so packages
// nothing depends on line up above the leaf gems.
func writeRank(buf *bytes.Buffer, rank string, ids []string) {
	if len(ids) < 2 {
		return
	}
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = strconv.Quote(id)
	}
	fmt.Fprintf(buf, "  { rank=%s; %s; }\n", rank, strings.Join(quoted, "; "))
}

func fmtLabel(n dag.Node, detailed bool) string {
	version, _ := n.Meta["version"].(string)
	if !detailed {
		if version == "" {
			return n.ID
		}
		return n.ID + "\n" + version
	}

	parts := []string{n.ID}
	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Meta[k]))
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n dag.Node, label string, highlight bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if highlight {
		attrs = append(attrs, "fillcolor=\"#d7f0ee\"", "penwidth=2", "fontname=\"Helvetica-Bold\"")
	}
	if n.Meta["source"] == "GIT" || n.Meta["source"] == "PATH" {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with one that
// scales, keeping the original viewBox dimensions.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(root))
}
