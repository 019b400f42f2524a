package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/matzehuels/gemdeps/pkg/deps"
	"github.com/matzehuels/gemdeps/pkg/deps/ruby"
	"github.com/matzehuels/gemdeps/pkg/errors"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if !slices.Equal(cfg.ExcludeGroups, deps.DefaultExcludedGroups) {
		t.Errorf("ExcludeGroups = %v", cfg.ExcludeGroups)
	}
	if cfg.Platform != ruby.EngineMRI || cfg.Format != "text" || cfg.Jobs < 1 {
		t.Errorf("Default() = %+v", cfg)
	}
	if cfg.IsSet(KeyFormat) {
		t.Error("IsSet on defaults should be false")
	}

	// Mutating the defaults must not leak into the package variable.
	cfg.ExcludeGroups[0] = "changed"
	if deps.DefaultExcludedGroups[0] == "changed" {
		t.Error("Default() shares its slice with deps.DefaultExcludedGroups")
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "gemdeps.toml", `
exclude_groups = ["development", "ci"]
include_seeds = true
platform = "jruby"
format = "json"
ignore = ["legacy/**"]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !slices.Equal(cfg.ExcludeGroups, []string{"development", "ci"}) {
		t.Errorf("ExcludeGroups = %v", cfg.ExcludeGroups)
	}
	if !cfg.IncludeSeeds || cfg.Platform != "jruby" || cfg.Format != "json" {
		t.Errorf("cfg = %+v", cfg)
	}
	if !slices.Equal(cfg.Ignore, []string{"legacy/**"}) {
		t.Errorf("Ignore = %v", cfg.Ignore)
	}
	if cfg.Path != path {
		t.Errorf("Path = %q, want %q", cfg.Path, path)
	}

	for _, key := range []string{KeyExcludeGroups, KeyIncludeSeeds, KeyPlatform, KeyFormat, KeyIgnore} {
		if !cfg.IsSet(key) {
			t.Errorf("IsSet(%q) = false, want true", key)
		}
	}
	for _, key := range []string{KeyWindows, KeyJobs} {
		if cfg.IsSet(key) {
			t.Errorf("IsSet(%q) = true, want false", key)
		}
	}

	env := cfg.Environment()
	if env.Engine != ruby.EngineJRuby || env.LookupEnv == nil {
		t.Errorf("Environment() = %+v", env)
	}
}

func TestLoadEmptyExcludeGroups(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "c.toml", "exclude_groups = []\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.IsSet(KeyExcludeGroups) || len(cfg.ExcludeGroups) != 0 {
		t.Errorf("ExcludeGroups = %v, set = %v; want empty and set", cfg.ExcludeGroups, cfg.IsSet(KeyExcludeGroups))
	}
}

func TestLoadRubyAlias(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "c.toml", `platform = "ruby"`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Platform != ruby.EngineMRI {
		t.Errorf("Platform = %q, want mri", cfg.Platform)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"syntax", "exclude_groups = [", errors.ErrCodeInvalidConfig},
		{"unknown key", "colour = true", errors.ErrCodeInvalidConfig},
		{"wrong type", "include_seeds = \"yes\"", errors.ErrCodeInvalidConfig},
		{"bad platform", "platform = \"rbx\"", errors.ErrCodeInvalidConfig},
		{"bad format", "format = \"xml\"", errors.ErrCodeInvalidConfig},
		{"negative jobs", "jobs = -1", errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, dir, tt.name+".toml", tt.content)
			_, err := Load(path)
			if !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want code %s", err, tt.code)
			}
		})
	}

	_, err := Load(filepath.Join(dir, "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestFind(t *testing.T) {
	project := t.TempDir()
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	if got, err := Find("", project); err != nil || got != "" {
		t.Errorf("Find() = %q, %v; want no file", got, err)
	}

	user := writeConfig(t, xdg, filepath.Join("gemdeps", "config.toml"), "")
	if got, _ := Find("", project); got != user {
		t.Errorf("Find() = %q, want user config %q", got, user)
	}

	local := writeConfig(t, project, ".gemdeps.toml", "")
	if got, _ := Find("", project); got != local {
		t.Errorf("Find() = %q, want project config %q", got, local)
	}

	explicit := writeConfig(t, t.TempDir(), "custom.toml", "")
	if got, _ := Find(explicit, project); got != explicit {
		t.Errorf("Find() = %q, want explicit %q", got, explicit)
	}

	if _, err := Find(filepath.Join(project, "nope.toml"), project); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Find(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestResolve(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	project := t.TempDir()

	cfg, err := Resolve("", project)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.Path != "" {
		t.Errorf("Path = %q, want defaults", cfg.Path)
	}

	writeConfig(t, project, ".gemdeps.toml", "include_seeds = true\n")
	cfg, err = Resolve("", project)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !cfg.IncludeSeeds {
		t.Error("IncludeSeeds = false, want true from project file")
	}
}
