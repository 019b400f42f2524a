package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/gemdeps/pkg/deps"
	"github.com/matzehuels/gemdeps/pkg/deps/ruby"
	"github.com/matzehuels/gemdeps/pkg/observability"
)

// parseFile runs the manifest parser that supports path, reporting the
// parse to the observability hooks.
func parseFile(ctx context.Context, path string, env ruby.Environment, opts deps.Options) (*deps.ManifestResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parser, err := deps.DetectManifest(path, &ruby.Gemfile{Env: env}, &ruby.GemfileLock{})
	if err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, parser.Type(), path)
	start := time.Now()

	result, err := parser.Parse(path, opts)

	count := 0
	if result != nil {
		switch {
		case result.Manifest != nil:
			count = len(result.Manifest.Declarations)
		case result.Graph != nil:
			count = result.Graph.Len()
		}
	}
	hooks.OnParseComplete(ctx, parser.Type(), path, count, time.Since(start), err)

	return result, err
}
