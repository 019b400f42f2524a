package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/package-url/packageurl-go"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/gemdeps/pkg/deps"
	"github.com/matzehuels/gemdeps/pkg/errors"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatPURL = "purl"
	FormatTree = "tree"
)

// Formats lists the supported formats in display order.
var Formats = []string{FormatText, FormatJSON, FormatYAML, FormatPURL, FormatTree}

// ValidateFormat checks that format is one of [Formats].
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(Formats, ", "))
	}
	return nil
}

// WriteOptions configures output.
type WriteOptions struct {
	// Color enables lipgloss styling in the tree format. Styling is dropped
	// automatically when the terminal does not support it.
	Color bool
}

// Write encodes entries in the given format.
func Write(w io.Writer, format string, entries []deps.Entry, opts WriteOptions) error {
	switch format {
	case FormatText, "":
		return WriteText(w, entries)
	case FormatJSON:
		return WriteJSON(w, entries)
	case FormatYAML:
		return WriteYAML(w, entries)
	case FormatPURL:
		return WritePURL(w, entries)
	case FormatTree:
		return WriteTree(w, entries, opts)
	}
	return ValidateFormat(format)
}

// WriteText writes one "name version" line per entry.
func WriteText(w io.Writer, entries []deps.Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		bw.WriteString(e.String())
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteJSON writes entries as an indented JSON array. An empty listing is
// written as [] rather than null.
func WriteJSON(w io.Writer, entries []deps.Entry) error {
	if entries == nil {
		entries = []deps.Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteYAML writes entries as a YAML sequence.
func WriteYAML(w io.Writer, entries []deps.Entry) error {
	if entries == nil {
		entries = []deps.Entry{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

// WritePURL writes one package URL per entry. Entries without a version
// produce a versionless purl.
func WritePURL(w io.Writer, entries []deps.Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		bw.WriteString(PURL(e))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// PURL returns the package URL of a gem entry.
func PURL(e deps.Entry) string {
	return packageurl.NewPackageURL(packageurl.TypeGem, "", e.Name, e.Version, nil, "").ToString()
}

var (
	styleName    = lipgloss.NewStyle().Bold(true)
	styleVersion = lipgloss.NewStyle().Foreground(lipgloss.Color("36"))
	styleGuide   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// WriteTree writes entries indented by depth, relative to the shallowest
// entry. Because a walk reports each package once, a package shared by
// several parents appears only under the first.
func WriteTree(w io.Writer, entries []deps.Entry, opts WriteOptions) error {
	if len(entries) == 0 {
		return nil
	}
	base := entries[0].Depth
	for _, e := range entries {
		base = min(base, e.Depth)
	}

	render := func(s lipgloss.Style, text string) string {
		if !opts.Color {
			return text
		}
		return s.Render(text)
	}

	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if d := e.Depth - base; d > 0 {
			bw.WriteString(render(styleGuide, strings.Repeat("│ ", d-1)+"├ "))
		}
		bw.WriteString(render(styleName, e.Name))
		if e.Version != "" {
			bw.WriteString(" " + render(styleVersion, e.Version))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
