// Package ruby reads Bundler's Gemfile and Gemfile.lock formats.
//
// # Manifests
//
// [ParseGemfile] understands the declarative subset of the Gemfile DSL:
// `gem` lines with requirements and options, `group`, `platforms`, `source`,
// `git`, `path`, `env` and `install_if` blocks, and `gemspec`. Each
// declaration's ShouldInclude is evaluated against an [Environment]:
//
//	m, err := ruby.ParseGemfile(f, ruby.ParseOptions{
//	    Path: "Gemfile",
//	    Env:  ruby.DefaultEnvironment(),
//	})
//
// Ruby code outside that subset is not executed. Conditionals are tracked
// only to keep blocks balanced.
//
// # Lockfiles
//
// [ParseLockfile] returns every locked spec with its version and direct
// dependency names in file order. [Lockfile.Graph] turns that into a
// [deps.Graph] for closure walks.
//
// # Manifest Parsers
//
// [Gemfile] and [GemfileLock] implement [deps.ManifestParser] for use with
// [deps.DetectManifest]. gems.rb and gems.locked are accepted as well.
package ruby
