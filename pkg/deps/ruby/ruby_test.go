package ruby

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/matzehuels/gemdeps/pkg/deps"
	"github.com/matzehuels/gemdeps/pkg/errors"
)

func TestGemfile_Supports(t *testing.T) {
	parser := &Gemfile{}

	tests := []struct {
		filename string
		want     bool
	}{
		{"Gemfile", true},
		{"gems.rb", true},
		{"gemfile", false},
		{"Gemfile.lock", false},
		{"package.json", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := parser.Supports(tt.filename); got != tt.want {
				t.Errorf("Supports(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestGemfileLock_Supports(t *testing.T) {
	parser := &GemfileLock{}

	tests := []struct {
		filename string
		want     bool
	}{
		{"Gemfile.lock", true},
		{"gems.locked", true},
		{"Gemfile", false},
		{"poetry.lock", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := parser.Supports(tt.filename); got != tt.want {
				t.Errorf("Supports(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestGemfile_Parse(t *testing.T) {
	dir := t.TempDir()
	gemfile := filepath.Join(dir, "Gemfile")
	content := `source 'https://rubygems.org'

# Web framework
gem 'rails', '~> 7.0'
gem 'puma', '>= 5.0'

group :development, :test do
  gem 'rspec-rails'
  gem 'factory_bot_rails'
end
`

	if err := os.WriteFile(gemfile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	parser := &Gemfile{}
	result, err := parser.Parse(gemfile, deps.Options{})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if result.Type != "Gemfile" || result.IncludesTransitive || result.Graph != nil {
		t.Errorf("result = %+v, want untransitive Gemfile manifest", result)
	}
	want := []string{"rails", "puma", "rspec-rails", "factory_bot_rails"}
	if got := result.Manifest.Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if result.Manifest.Path != gemfile {
		t.Errorf("Path = %q, want %q", result.Manifest.Path, gemfile)
	}
}

func TestGemfile_ParseErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := (&Gemfile{}).Parse(filepath.Join(dir, "Gemfile"), deps.Options{})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: code = %q, want %q", errors.GetCode(err), errors.ErrCodeFileNotFound)
	}

	bad := filepath.Join(dir, "gems.rb")
	if err := os.WriteFile(bad, []byte("group :test do\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err = (&Gemfile{}).Parse(bad, deps.Options{})
	if !errors.Is(err, errors.ErrCodeInvalidManifest) {
		t.Errorf("malformed file: code = %q, want %q", errors.GetCode(err), errors.ErrCodeInvalidManifest)
	}
}

func TestGemfileLock_Parse(t *testing.T) {
	dir := t.TempDir()
	lock := filepath.Join(dir, "Gemfile.lock")
	if err := os.WriteFile(lock, []byte(railsLock), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := (&GemfileLock{}).Parse(lock, deps.Options{})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !result.IncludesTransitive || result.Graph == nil {
		t.Fatalf("result = %+v, want transitive graph", result)
	}
	if !result.Graph.Has("activesupport") {
		t.Error("graph missing activesupport")
	}

	if err := os.WriteFile(lock, []byte("GEM\n  specs:\n    broken\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err = (&GemfileLock{}).Parse(lock, deps.Options{})
	if !errors.Is(err, errors.ErrCodeInvalidLockfile) {
		t.Errorf("code = %q, want %q", errors.GetCode(err), errors.ErrCodeInvalidLockfile)
	}
}

func TestGemfileLock_ParseLogsUnresolved(t *testing.T) {
	dir := t.TempDir()
	lock := filepath.Join(dir, "Gemfile.lock")
	src := "GEM\n  specs:\n    a (1.0)\n      ghost\n"
	if err := os.WriteFile(lock, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	var logged int
	_, err := (&GemfileLock{}).Parse(lock, deps.Options{
		Logger: func(string, ...any) { logged++ },
	})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if logged != 1 {
		t.Errorf("logged %d messages, want 1", logged)
	}
}

func TestLockfileFor(t *testing.T) {
	tests := []struct {
		manifest, lock string
	}{
		{"Gemfile", "Gemfile.lock"},
		{filepath.Join("app", "Gemfile"), filepath.Join("app", "Gemfile.lock")},
		{filepath.Join("app", "gems.rb"), filepath.Join("app", "gems.locked")},
	}
	for _, tt := range tests {
		if got := LockfileFor(tt.manifest); got != tt.lock {
			t.Errorf("LockfileFor(%q) = %q, want %q", tt.manifest, got, tt.lock)
		}
		if got := ManifestFor(tt.lock); got != tt.manifest {
			t.Errorf("ManifestFor(%q) = %q, want %q", tt.lock, got, tt.manifest)
		}
	}
}

func TestFindManifest(t *testing.T) {
	dir := t.TempDir()
	if got := FindManifest(dir); got != "" {
		t.Errorf("FindManifest(empty) = %q, want empty", got)
	}

	for _, name := range []string{"gems.rb", "gems.locked"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	if got := FindManifest(dir); got != filepath.Join(dir, "gems.rb") {
		t.Errorf("FindManifest = %q, want gems.rb", got)
	}
	if got := FindLockfile(dir); got != filepath.Join(dir, "gems.locked") {
		t.Errorf("FindLockfile = %q, want gems.locked", got)
	}

	if err := os.WriteFile(filepath.Join(dir, "Gemfile"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	if got := FindManifest(dir); got != filepath.Join(dir, "Gemfile") {
		t.Errorf("FindManifest = %q, want Gemfile preferred", got)
	}
}
