// Package pkg holds the libraries behind the gemdeps command.
//
// # Overview
//
// gemdeps reads a Bundler project (Gemfile and Gemfile.lock) and reports the
// gems the application needs at runtime: the gems declared outside excluded
// groups plus everything they depend on, each listed once.
//
// # Architecture
//
//	Gemfile ──────► [deps/ruby] ParseGemfile ──► deps.Manifest
//	                                                  │
//	                                   [deps] ExtractRuntimeDeps
//	                                                  │ seeds
//	Gemfile.lock ─► [deps/ruby] ParseLockfile ─► deps.Graph ─► [deps] ResolveClosure
//	                                                                  │
//	                                               [io] text/json/yaml/purl/tree
//	                                               [render/nodelink] DOT/SVG
//
// [pipeline] strings these stages together for one project and [scan] runs
// the pipeline over every project below a directory.
//
// # Packages
//
//   - [deps]: manifest and graph model, extractor, closure walker
//   - [deps/ruby]: Gemfile and lockfile parsers, platform rules
//   - [dag]: ordered directed graph used for the lockfile
//   - [io]: output formats
//   - [render/nodelink]: Graphviz rendering
//   - [pipeline]: one-project orchestration
//   - [scan]: project discovery and concurrent listing
//   - [observability]: hooks around parse, resolve and render
//   - [errors]: coded errors and input validation
//   - [buildinfo]: version information set at build time
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil)
//	res, err := runner.List(ctx, pipeline.Options{Dir: "path/to/app"})
//	if err != nil {
//	    return err
//	}
//	for _, e := range res.Entries {
//	    fmt.Println(e)
//	}
package pkg
