package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/gemdeps/pkg/deps"
)

// Report is the listing of one project found by a directory scan.
type Report struct {
	Project      string       `json:"project" yaml:"project"`
	Dependencies []deps.Entry `json:"dependencies" yaml:"dependencies"`
}

// WriteReports writes several project listings. Line formats (text, purl,
// tree) print a "# <project>" header before each project; json and yaml
// write a single document.
func WriteReports(w io.Writer, format string, reports []Report, opts WriteOptions) error {
	if err := ValidateFormat(format); err != nil && format != "" {
		return err
	}
	for i := range reports {
		if reports[i].Dependencies == nil {
			reports[i].Dependencies = []deps.Entry{}
		}
	}
	if reports == nil {
		reports = []Report{}
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(reports); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	}

	bw := bufio.NewWriter(w)
	for _, r := range reports {
		fmt.Fprintf(bw, "# %s\n", r.Project)
		if err := Write(bw, format, r.Dependencies, opts); err != nil {
			return err
		}
	}
	return bw.Flush()
}
