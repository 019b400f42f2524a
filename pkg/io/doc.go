// Package io writes dependency listings in the formats gemdeps supports.
//
// # Formats
//
//   - text: one "name version" line per package, or just "name" when the
//     version is unknown (no lockfile)
//   - json: an indented array of {"name", "version", "depth", "parent"}
//   - yaml: the same records as a YAML sequence
//   - purl: one package URL per line, e.g. pkg:gem/rack@3.0.8
//   - tree: packages indented by walk depth, optionally colored
//
// The text format is the stable, script-friendly one; the others add the
// walk metadata of [deps.Entry].
//
// # Usage
//
//	entries := deps.ResolveClosure(g, seeds, deps.Options{})
//	if err := io.Write(os.Stdout, io.FormatText, entries, io.WriteOptions{}); err != nil {
//	    log.Fatal(err)
//	}
//
// Multi-project results from a directory scan are written with
// [WriteReports], which groups entries under their project path.
//
// # Concurrency
//
// Writers hold no state. Concurrent calls are safe as long as they write to
// different io.Writers.
package io
