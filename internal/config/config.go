// Package config loads gemdeps settings from TOML files.
//
// Settings are looked up in this order, first match wins:
//
//  1. the file given with --config
//  2. .gemdeps.toml in the project directory
//  3. $XDG_CONFIG_HOME/gemdeps/config.toml (~/.config/gemdeps/config.toml)
//
// Command-line flags override file values, which override built-in defaults.
//
// Example:
//
//	exclude_groups = ["development", "test", "ci"]
//	include_seeds  = true
//	platform       = "jruby"
//	format         = "json"
//	ignore         = ["legacy/**"]
//	jobs           = 4
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/gemdeps/pkg/deps"
	"github.com/matzehuels/gemdeps/pkg/deps/ruby"
	"github.com/matzehuels/gemdeps/pkg/errors"
	"github.com/matzehuels/gemdeps/pkg/io"
)

const (
	appName     = "gemdeps"
	projectFile = ".gemdeps.toml"
)

// Keys as they appear in the file.
const (
	KeyExcludeGroups = "exclude_groups"
	KeyIncludeSeeds  = "include_seeds"
	KeyPlatform      = "platform"
	KeyWindows       = "windows"
	KeyFormat        = "format"
	KeyIgnore        = "ignore"
	KeyJobs          = "jobs"
)

// Config holds file settings. Use [Config.IsSet] to tell an explicit zero
// value from an absent key.
type Config struct {
	ExcludeGroups []string `toml:"exclude_groups"`
	IncludeSeeds  bool     `toml:"include_seeds"`
	Platform      string   `toml:"platform"`
	Windows       bool     `toml:"windows"`
	Format        string   `toml:"format"`
	Ignore        []string `toml:"ignore"`
	Jobs          int      `toml:"jobs"`

	// Path is the file the settings were read from, "" for defaults.
	Path string `toml:"-"`

	defined map[string]bool
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		ExcludeGroups: slices.Clone(deps.DefaultExcludedGroups),
		Platform:      ruby.EngineMRI,
		Windows:       runtime.GOOS == "windows",
		Format:        io.FormatText,
		Jobs:          runtime.NumCPU(),
	}
}

// IsSet reports whether key was present in the loaded file.
func (c *Config) IsSet(key string) bool {
	return c.defined[key]
}

// Load reads the file at path on top of [Default]. Unknown keys and
// invalid values are errors.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "config file %s does not exist", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	cfg.Path = path
	cfg.defined = make(map[string]bool)
	for _, k := range md.Keys() {
		cfg.defined[k.String()] = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", path)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch c.Platform {
	case ruby.EngineMRI, ruby.EngineJRuby, ruby.EngineTruffleRuby:
	case "ruby":
		c.Platform = ruby.EngineMRI
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "invalid platform %q (must be one of: mri, jruby, truffleruby)", c.Platform)
	}
	if err := io.ValidateFormat(c.Format); err != nil {
		return err
	}
	if c.Jobs < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "jobs must not be negative")
	}
	return nil
}

// Environment returns the Ruby environment the settings describe, reading
// `env` block variables from the process environment.
func (c *Config) Environment() ruby.Environment {
	env := ruby.DefaultEnvironment()
	env.Engine = c.Platform
	env.Windows = c.Windows
	return env
}

// Find returns the config file to use, or "" when there is none. An
// explicit path must exist.
func Find(explicit, projectDir string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", errors.New(errors.ErrCodeFileNotFound, "config file %s does not exist", explicit)
		}
		return explicit, nil
	}

	candidates := []string{filepath.Join(projectDir, projectFile)}
	if dir, err := userConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, appName, "config.toml"))
	}
	for _, p := range candidates {
		if fi, err := os.Stat(p); err == nil && fi.Mode().IsRegular() {
			return p, nil
		}
	}
	return "", nil
}

// Resolve finds and loads the settings for a project directory, falling
// back to [Default] when no file exists.
func Resolve(explicit, projectDir string) (*Config, error) {
	path, err := Find(explicit, projectDir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// userConfigDir follows XDG on every platform, as CLI users expect
// ~/.config rather than ~/Library/Application Support on macOS.
func userConfigDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config"), nil
}
