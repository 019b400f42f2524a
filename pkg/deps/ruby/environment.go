package ruby

import (
	"os"
	"runtime"
	"strings"
)

// Ruby engines recognised by [Environment].
const (
	EngineMRI         = "mri"
	EngineJRuby       = "jruby"
	EngineTruffleRuby = "truffleruby"
)

// Environment describes the Ruby runtime that declarations are evaluated
// against. It decides whether `platforms:` restrictions, `env` blocks and
// `install_if` conditions include a gem.
type Environment struct {
	Engine    string                      // One of EngineMRI, EngineJRuby, EngineTruffleRuby
	Windows   bool                        // Whether the target is a Windows host
	LookupEnv func(string) (string, bool) // Environment lookup for `env` blocks, as os.LookupEnv
}

// DefaultEnvironment returns an MRI environment for the host OS that reads
// the process environment.
func DefaultEnvironment() Environment {
	return Environment{
		Engine:    EngineMRI,
		Windows:   runtime.GOOS == "windows",
		LookupEnv: os.LookupEnv,
	}
}

func (e Environment) withDefaults() Environment {
	if e.Engine == "" {
		e.Engine = EngineMRI
	}
	if e.LookupEnv == nil {
		e.LookupEnv = func(string) (string, bool) { return "", false }
	}
	return e
}

var windowsPlatforms = map[string]bool{
	"windows":        true,
	"mswin":          true,
	"mswin64":        true,
	"mingw":          true,
	"x64_mingw":      true,
	"x64_mingw_ucrt": true,
}

// Matches reports whether a Bundler platform name applies to e.
//
// Versioned names such as "mri_31" or "ruby_30" match on their engine part;
// the version itself is not checked. Unknown names never match.
func (e Environment) Matches(platform string) bool {
	p := strings.ToLower(strings.TrimPrefix(platform, ":"))
	if i := strings.LastIndexByte(p, '_'); i > 0 && isVersionSuffix(p[i+1:]) {
		p = p[:i]
	}

	if windowsPlatforms[p] {
		return e.Windows
	}
	switch p {
	case "ruby":
		// :ruby is every C-ruby-compatible engine outside Windows.
		return !e.Windows && e.Engine != EngineJRuby
	case "mri":
		return !e.Windows && e.Engine == EngineMRI
	case "jruby":
		return e.Engine == EngineJRuby
	case "truffleruby":
		return e.Engine == EngineTruffleRuby
	}
	return false
}

// Applies reports whether a declaration restricted to platforms applies to
// e. An empty list applies everywhere.
func (e Environment) Applies(platforms []string) bool {
	if len(platforms) == 0 {
		return true
	}
	for _, p := range platforms {
		if e.Matches(p) {
			return true
		}
	}
	return false
}

func isVersionSuffix(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
