package pipeline

import (
	"context"
	stdio "io"
	"time"

	"github.com/matzehuels/gemdeps/pkg/io"
	"github.com/matzehuels/gemdeps/pkg/observability"
	"github.com/matzehuels/gemdeps/pkg/render/nodelink"
)

// Write writes the entries of res to w in the given listing format.
func (r *Runner) Write(ctx context.Context, w stdio.Writer, res *Result, format string, opts io.WriteOptions) error {
	if format == "" {
		format = io.FormatText
	}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, format)
	start := time.Now()

	err := io.Write(w, format, res.Entries, opts)

	hooks.OnRenderComplete(ctx, format, time.Since(start), err)
	return err
}

// RenderGraph renders the dependency graph of res as DOT source or SVG.
func (r *Runner) RenderGraph(ctx context.Context, res *Result, format string, opts nodelink.Options) ([]byte, error) {
	if err := ValidateGraphFormat(format); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, format)
	start := time.Now()

	out, err := renderGraph(res, format, opts)

	hooks.OnRenderComplete(ctx, format, time.Since(start), err)
	return out, err
}

func renderGraph(res *Result, format string, opts nodelink.Options) ([]byte, error) {
	g := ClosureGraph(res)
	if opts.Highlight == nil && res.Mode != ModeLockfile {
		opts.Highlight = res.Seeds
	}
	dot := nodelink.ToDOT(g, opts)
	if format == FormatDOT {
		return []byte(dot), nil
	}
	return nodelink.RenderSVG(dot)
}
