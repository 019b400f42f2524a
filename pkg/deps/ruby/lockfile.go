package ruby

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/matzehuels/gemdeps/pkg/deps"
)

// Lockfile is the parsed form of a Gemfile.lock.
type Lockfile struct {
	Path         string         // File name, if known
	Specs        []deps.Package // Resolved specs in file order, one per name
	Platforms    []string       // PLATFORMS section
	Dependencies []Requirement  // DEPENDENCIES section
	RubyVersion  string         // RUBY VERSION section, e.g. "ruby 3.2.2p53"
	BundledWith  string         // BUNDLED WITH section
}

// Requirement is one entry of the DEPENDENCIES section.
type Requirement struct {
	Name         string
	Requirements []string
	Pinned       bool // Marked with "!": comes from a non-default source
}

// Graph builds the Package Graph of the lockfile.
func (l *Lockfile) Graph() *deps.Graph {
	return deps.NewGraph(l.Specs)
}

// The lockfile grammar is fixed-indent: 2 spaces for source attributes and
// section entries, 4 for specs, 6 for spec dependencies.
var (
	specLine  = regexp.MustCompile(`^(\S+) \(([^-)]+)(?:-([^)]+))?\)$`)
	depLine   = regexp.MustCompile(`^(\S+?)(?: \(([^)]*)\))?(!)?$`)
	attribute = regexp.MustCompile(`^([a-z_]+): ?(.*)$`)
)

var sourceSections = map[string]bool{
	"GEM":           true,
	"GIT":           true,
	"PATH":          true,
	"PLUGIN SOURCE": true,
}

var otherSections = map[string]bool{
	"PLATFORMS":    true,
	"DEPENDENCIES": true,
	"RUBY VERSION": true,
	"BUNDLED WITH": true,
	"CHECKSUMS":    true,
}

// ParseLockfile reads a Bundler lockfile.
//
// Specs keep their file order. A gem locked for several platforms
// (nokogiri (1.15.4-x86_64-linux), nokogiri (1.15.4-arm64-darwin)) is kept
// once, as its first variant. Unknown upper-case sections are skipped, as
// Bundler does. Merge-conflict markers, indentation that does not fit the
// current section, and spec lines without a version are errors.
func ParseLockfile(r io.Reader, path string) (*Lockfile, error) {
	lf := &Lockfile{Path: path}

	syntaxErr := func(line int, format string, args ...any) error {
		return &SyntaxError{Path: path, Line: line, Msg: fmt.Sprintf(format, args...)}
	}

	var (
		section string
		current *deps.Package
		variant bool // current spec line repeated an earlier name
		inSpecs bool
		lineNo  int
		seen    = make(map[string]bool)
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), " \r")

		for _, marker := range []string{"<<<<<<<", "=======", ">>>>>>>"} {
			if strings.HasPrefix(line, marker) {
				return nil, syntaxErr(lineNo, "merge conflict marker %q; resolve the conflict and run `bundle install`", marker)
			}
		}
		if line == "" {
			continue
		}

		indent := len(line) - len(strings.TrimLeft(line, " "))
		body := line[indent:]

		if indent == 0 {
			current, variant, inSpecs = nil, false, false
			section = body
			if !sourceSections[body] && !otherSections[body] && body != strings.ToUpper(body) {
				return nil, syntaxErr(lineNo, "unexpected line %q outside any section", body)
			}
			continue
		}
		if section == "" {
			return nil, syntaxErr(lineNo, "indented line before the first section")
		}

		switch {
		case sourceSections[section]:
			switch indent {
			case 2:
				m := attribute.FindStringSubmatch(body)
				if m == nil {
					return nil, syntaxErr(lineNo, "malformed %s attribute %q", section, body)
				}
				inSpecs = m[1] == "specs"
				current, variant = nil, false
			case 4:
				if !inSpecs {
					return nil, syntaxErr(lineNo, "spec %q outside specs:", body)
				}
				m := specLine.FindStringSubmatch(body)
				if m == nil {
					return nil, syntaxErr(lineNo, "malformed spec %q", body)
				}
				if seen[m[1]] {
					current, variant = nil, true
					continue
				}
				seen[m[1]] = true
				lf.Specs = append(lf.Specs, deps.Package{
					Name:     m[1],
					Version:  m[2],
					Platform: m[3],
					Source:   section,
				})
				current, variant = &lf.Specs[len(lf.Specs)-1], false
			case 6:
				if current == nil && !variant {
					return nil, syntaxErr(lineNo, "dependency %q without a spec", body)
				}
				m := depLine.FindStringSubmatch(body)
				if m == nil {
					return nil, syntaxErr(lineNo, "malformed dependency %q", body)
				}
				if current != nil {
					current.Dependencies = append(current.Dependencies, m[1])
				}
			default:
				return nil, syntaxErr(lineNo, "unexpected indentation in %s section", section)
			}

		case section == "PLATFORMS":
			lf.Platforms = append(lf.Platforms, body)

		case section == "DEPENDENCIES":
			if indent != 2 {
				return nil, syntaxErr(lineNo, "unexpected indentation in DEPENDENCIES section")
			}
			m := depLine.FindStringSubmatch(body)
			if m == nil {
				return nil, syntaxErr(lineNo, "malformed dependency %q", body)
			}
			req := Requirement{Name: m[1], Pinned: m[3] == "!"}
			if m[2] != "" {
				for _, r := range strings.Split(m[2], ",") {
					req.Requirements = append(req.Requirements, strings.TrimSpace(r))
				}
			}
			lf.Dependencies = append(lf.Dependencies, req)

		case section == "RUBY VERSION":
			lf.RubyVersion = body

		case section == "BUNDLED WITH":
			lf.BundledWith = body
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lf, nil
}
