package ruby

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

const railsLock = `GIT
  remote: https://github.com/example/widget.git
  revision: 0123456789abcdef
  branch: main
  specs:
    widget (0.3.0)
      activesupport (>= 6.1)

PATH
  remote: .
  specs:
    myapp (1.0.0)
      rack

GEM
  remote: https://rubygems.org/
  specs:
    activesupport (7.0.4)
      concurrent-ruby (~> 1.0, >= 1.0.2)
      i18n (>= 1.6, < 2)
    concurrent-ruby (1.2.2)
    i18n (1.14.1)
      concurrent-ruby (~> 1.0)
    nokogiri (1.15.4-x86_64-linux)
      racc (~> 1.4)
    nokogiri (1.15.4-arm64-darwin)
      racc (~> 1.4)
      mini_portile2 (~> 2.8)
    racc (1.7.1)
    rack (3.0.8)

PLATFORMS
  arm64-darwin
  x86_64-linux

DEPENDENCIES
  activesupport (~> 7.0)
  myapp!
  nokogiri
  widget!

CHECKSUMS
  rack (3.0.8) sha256=0123

RUBY VERSION
   ruby 3.2.2p53

BUNDLED WITH
   2.4.19
`

func TestParseLockfile(t *testing.T) {
	lf, err := ParseLockfile(strings.NewReader(railsLock), "Gemfile.lock")
	if err != nil {
		t.Fatalf("ParseLockfile: %v", err)
	}

	var names []string
	for _, p := range lf.Specs {
		names = append(names, p.Name+" "+p.Version)
	}
	want := []string{
		"widget 0.3.0",
		"myapp 1.0.0",
		"activesupport 7.0.4",
		"concurrent-ruby 1.2.2",
		"i18n 1.14.1",
		"nokogiri 1.15.4",
		"racc 1.7.1",
		"rack 3.0.8",
	}
	if !slices.Equal(names, want) {
		t.Errorf("Specs = %v, want %v", names, want)
	}

	specs := make(map[string]int)
	for i, p := range lf.Specs {
		specs[p.Name] = i
	}
	tests := []struct {
		name     string
		deps     []string
		source   string
		platform string
	}{
		{"widget", []string{"activesupport"}, "GIT", ""},
		{"myapp", []string{"rack"}, "PATH", ""},
		{"activesupport", []string{"concurrent-ruby", "i18n"}, "GEM", ""},
		{"concurrent-ruby", nil, "GEM", ""},
		{"nokogiri", []string{"racc"}, "GEM", "x86_64-linux"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := lf.Specs[specs[tt.name]]
			if !slices.Equal(p.Dependencies, tt.deps) {
				t.Errorf("Dependencies = %v, want %v", p.Dependencies, tt.deps)
			}
			if p.Source != tt.source {
				t.Errorf("Source = %q, want %q", p.Source, tt.source)
			}
			if p.Platform != tt.platform {
				t.Errorf("Platform = %q, want %q", p.Platform, tt.platform)
			}
		})
	}

	if want := []string{"arm64-darwin", "x86_64-linux"}; !slices.Equal(lf.Platforms, want) {
		t.Errorf("Platforms = %v, want %v", lf.Platforms, want)
	}
	if len(lf.Dependencies) != 4 {
		t.Fatalf("Dependencies = %+v, want 4 entries", lf.Dependencies)
	}
	if d := lf.Dependencies[0]; d.Name != "activesupport" || !slices.Equal(d.Requirements, []string{"~> 7.0"}) || d.Pinned {
		t.Errorf("Dependencies[0] = %+v", d)
	}
	if d := lf.Dependencies[1]; d.Name != "myapp" || !d.Pinned {
		t.Errorf("Dependencies[1] = %+v, want pinned myapp", d)
	}
	if lf.RubyVersion != "ruby 3.2.2p53" {
		t.Errorf("RubyVersion = %q", lf.RubyVersion)
	}
	if lf.BundledWith != "2.4.19" {
		t.Errorf("BundledWith = %q", lf.BundledWith)
	}
}

func TestLockfileGraph(t *testing.T) {
	lf, err := ParseLockfile(strings.NewReader(railsLock), "")
	if err != nil {
		t.Fatalf("ParseLockfile: %v", err)
	}
	g := lf.Graph()

	if g.Len() != 8 {
		t.Errorf("Len() = %d, want 8", g.Len())
	}
	if got := g.Dependencies("i18n"); !slices.Equal(got, []string{"concurrent-ruby"}) {
		t.Errorf("Dependencies(i18n) = %v", got)
	}
	if v := g.Version("nokogiri"); v != "1.15.4" {
		t.Errorf("Version(nokogiri) = %q, want 1.15.4", v)
	}
	if len(g.Unresolved()) != 0 {
		t.Errorf("Unresolved() = %v, want none", g.Unresolved())
	}
}

func TestParseLockfileEmpty(t *testing.T) {
	lf, err := ParseLockfile(strings.NewReader(""), "")
	if err != nil {
		t.Fatalf("ParseLockfile: %v", err)
	}
	if len(lf.Specs) != 0 {
		t.Errorf("Specs = %v, want none", lf.Specs)
	}
}

func TestParseLockfileUnknownSection(t *testing.T) {
	src := "GEM\n  remote: https://rubygems.org/\n  specs:\n    rake (13.0.6)\n\nFUTURE SECTION\n  whatever here\n"
	lf, err := ParseLockfile(strings.NewReader(src), "")
	if err != nil {
		t.Fatalf("ParseLockfile: %v", err)
	}
	if len(lf.Specs) != 1 || lf.Specs[0].Name != "rake" {
		t.Errorf("Specs = %+v, want [rake]", lf.Specs)
	}
}

func TestParseLockfileErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
	}{
		{
			name: "merge conflict",
			src:  "GEM\n  specs:\n<<<<<<< HEAD\n    rake (13.0.6)\n",
			line: 3,
		},
		{
			name: "spec without version",
			src:  "GEM\n  specs:\n    rake\n",
			line: 3,
		},
		{
			name: "spec outside specs",
			src:  "GEM\n  remote: https://rubygems.org/\n    rake (13.0.6)\n",
			line: 3,
		},
		{
			name: "dependency without spec",
			src:  "GEM\n  specs:\n      rake (>= 0)\n",
			line: 3,
		},
		{
			name: "bad indentation",
			src:  "GEM\n  specs:\n   rake (13.0.6)\n",
			line: 3,
		},
		{
			name: "indented before section",
			src:  "  rake (13.0.6)\n",
			line: 1,
		},
		{
			name: "garbage header",
			src:  "this is not a lockfile\n",
			line: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLockfile(strings.NewReader(tt.src), "Gemfile.lock")
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("error = %v, want *SyntaxError", err)
			}
			if se.Line != tt.line {
				t.Errorf("Line = %d, want %d", se.Line, tt.line)
			}
		})
	}
}
