// Package deps turns a parsed Gemfile and Gemfile.lock into the flat list of
// runtime dependencies of a Ruby project.
//
// # Overview
//
// Bundler splits a project's dependencies two ways. The Gemfile declares
// direct dependencies and tags each with one or more groups (default,
// development, test, ...). The Gemfile.lock records the resolved graph: every
// gem, direct or transitive, with its version and the names of the gems it
// depends on.
//
// This package works on the parsed form of both files and does three things:
//
//  1. [ExtractRuntimeDeps] filters the declarations down to the runtime seeds:
//     those that apply to the current platform and sit in no excluded group.
//  2. [NewGraph] indexes the lockfile specs by name.
//  3. [ResolveClosure] walks the graph from the seeds and reports each reached
//     package once, depth-first, with its resolved version.
//
// When there is no lockfile, [DirectOnly] reports the seeds without versions.
// [AllPackages] lists a lockfile verbatim.
//
// Parsing the file formats themselves lives in [ruby].
//
// # Seeds
//
// By default the seeds themselves are looked up but not emitted: output
// starts at their dependencies. Set [Options.IncludeSeeds] to emit each
// seed's own entry before its closure.
//
//	seeds := deps.ExtractRuntimeDeps(manifest, deps.DefaultExcludedGroups)
//	for _, e := range deps.ResolveClosure(graph, seeds, deps.Options{}) {
//	    fmt.Println(e)
//	}
//
// # Excluded Groups
//
// [DefaultExcludedGroups] holds the groups treated as non-runtime:
// development, guard, packaging, release, system_tests and test.
// [Options.ExcludedGroups] overrides the set.
//
// [ruby]: github.com/matzehuels/gemdeps/pkg/deps/ruby
package deps
