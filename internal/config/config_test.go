package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func writeFile(t *testing.T, fsys afero.Fs, path, content string) {
	t.Helper()
	if err := afero.WriteFile(fsys, path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if cfg.ResourcesDir != DefaultResourcesDir {
		t.Errorf("ResourcesDir = %q, want %q", cfg.ResourcesDir, DefaultResourcesDir)
	}
	if cfg.Codec != DefaultCodec || cfg.PathMaker != DefaultPathMaker || cfg.ListMaker != DefaultListMaker {
		t.Errorf("Codec/PathMaker/ListMaker = %q/%q/%q", cfg.Codec, cfg.PathMaker, cfg.ListMaker)
	}
	if cfg.WriteActual == nil || !*cfg.WriteActual {
		t.Error("WriteActual should default to true")
	}
	if cfg.NDigits != nil {
		t.Errorf("NDigits = %v, want nil", *cfg.NDigits)
	}
	if cfg.AcceptEnv != DefaultAcceptEnv {
		t.Errorf("AcceptEnv = %q, want %q", cfg.AcceptEnv, DefaultAcceptEnv)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("Validate(Default()) error = %v", err)
	}
}

func TestLoad_JSON(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/proj/.respect.json", `{
		"resources_dir": "golden",
		"ndigits": 4,
		"codec": "compact",
		"write_actual": false
	}`)

	cfg, warnings, err := Load(fsys, "/proj/.respect.json")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	if cfg.ResourcesDir != "golden" {
		t.Errorf("ResourcesDir = %q, want golden", cfg.ResourcesDir)
	}
	if cfg.NDigits == nil || *cfg.NDigits != 4 {
		t.Errorf("NDigits = %v, want 4", cfg.NDigits)
	}
	if cfg.Codec != "compact" {
		t.Errorf("Codec = %q, want compact", cfg.Codec)
	}
	if cfg.WriteActual == nil || *cfg.WriteActual {
		t.Error("WriteActual = true, want false")
	}
	if cfg.PathMaker != DefaultPathMaker {
		t.Errorf("PathMaker = %q, want default", cfg.PathMaker)
	}
}

func TestLoad_YAML(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/proj/.respect.yaml", "ndigits: 6\npath_maker: function\naccept_env: UPDATE_GOLDEN\n")

	cfg, _, err := Load(fsys, "/proj/.respect.yaml")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.NDigits == nil || *cfg.NDigits != 6 {
		t.Errorf("NDigits = %v, want 6", cfg.NDigits)
	}
	if cfg.PathMaker != "function" {
		t.Errorf("PathMaker = %q, want function", cfg.PathMaker)
	}
	if cfg.AcceptEnv != "UPDATE_GOLDEN" {
		t.Errorf("AcceptEnv = %q, want UPDATE_GOLDEN", cfg.AcceptEnv)
	}
}

func TestLoad_EmptyYAML(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/proj/.respect.yml", "")

	cfg, _, err := Load(fsys, "/proj/.respect.yml")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ResourcesDir != DefaultResourcesDir {
		t.Errorf("ResourcesDir = %q, want default", cfg.ResourcesDir)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"malformed json", ".respect.json", `{"codec": `, "invalid JSON"},
		{"malformed yaml", ".respect.yaml", "codec: [", "failed to parse config file"},
		{"schema violation", ".respect.json", `{"codec": "toml"}`, "config validation failed"},
		{"wrong type", ".respect.yaml", "ndigits: four\n", "config validation failed"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fsys := afero.NewMemMapFs()
			path := "/proj/" + tt.file
			writeFile(t, fsys, path, tt.content)

			_, _, err := Load(fsys, path)
			if err == nil {
				t.Fatal("Load() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %q, want to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()

	_, _, err := Load(afero.NewMemMapFs(), "/nonexistent/.respect.json")
	if err == nil {
		t.Fatal("Load() expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want os.ErrNotExist", err)
	}
}

func TestFind(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/repo/go.mod", "module example.com/repo\n")
	writeFile(t, fsys, "/repo/.respect.yaml", "ndigits: 2\n")
	writeFile(t, fsys, "/repo/sub/.respect.json", `{}`)
	writeFile(t, fsys, "/outside/.respect.json", `{}`)
	writeFile(t, fsys, "/outside/mod/go.mod", "module example.com/mod\n")
	if err := fsys.MkdirAll("/repo/pkg/deep", 0755); err != nil {
		t.Fatal(err)
	}
	if err := fsys.MkdirAll("/outside/mod/pkg", 0755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		dir  string
		want string
	}{
		{"walks up to module root", "/repo/pkg/deep", "/repo/.respect.yaml"},
		{"nearest wins", "/repo/sub", "/repo/sub/.respect.json"},
		{"stops at go.mod", "/outside/mod/pkg", ""},
		{"same directory", "/repo", "/repo/.respect.yaml"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Find(fsys, filepath.FromSlash(tt.dir))
			if err != nil {
				t.Fatalf("Find() error = %v", err)
			}
			want := tt.want
			if want != "" {
				want = filepath.FromSlash(want)
			}
			if got != want {
				t.Errorf("Find(%q) = %q, want %q", tt.dir, got, want)
			}
		})
	}
}

func TestFind_PrefersJSON(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/p/.respect.json", `{}`)
	writeFile(t, fsys, "/p/.respect.yaml", "")
	writeFile(t, fsys, "/p/go.mod", "")

	got, err := Find(fsys, "/p")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.FromSlash("/p/.respect.json") {
		t.Errorf("Find() = %q, want .respect.json", got)
	}
}

func TestLoadFrom(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/m/go.mod", "")
	writeFile(t, fsys, "/m/a/.respect.json", `{"ndigits": 3, "extra": 1}`)
	if err := fsys.MkdirAll("/m/b", 0755); err != nil {
		t.Fatal(err)
	}

	cfg, path, warnings, err := LoadFrom(fsys, "/m/a")
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if path != filepath.FromSlash("/m/a/.respect.json") {
		t.Errorf("path = %q", path)
	}
	if cfg.NDigits == nil || *cfg.NDigits != 3 {
		t.Errorf("NDigits = %v, want 3", cfg.NDigits)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], `"extra"`) {
		t.Errorf("warnings = %v, want one about extra", warnings)
	}

	cfg, path, _, err = LoadFrom(fsys, "/m/b")
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if path != "" || cfg.ResourcesDir != DefaultResourcesDir {
		t.Errorf("LoadFrom() without file = %q, %+v", path, cfg)
	}
}

func TestConfig_ResolveResourcesDir(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if got, want := cfg.ResolveResourcesDir("/src/pkg"), filepath.Join("/src/pkg", "testdata"); got != want {
		t.Errorf("ResolveResourcesDir() = %q, want %q", got, want)
	}

	cfg.ResourcesDir = "../shared/golden"
	if got, want := cfg.ResolveResourcesDir("/src/pkg"), filepath.Join("/src", "shared", "golden"); got != want {
		t.Errorf("ResolveResourcesDir() = %q, want %q", got, want)
	}

	abs, err := filepath.Abs("/golden")
	if err != nil {
		t.Fatal(err)
	}
	cfg.ResourcesDir = abs
	if got := cfg.ResolveResourcesDir("/src/pkg"); got != abs {
		t.Errorf("ResolveResourcesDir() = %q, want %q", got, abs)
	}
}

func TestConfig_AcceptFromEnv(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"YES", true},
		{" on ", true},
		{"0", false},
		{"false", false},
		{"", false},
	}

	cfg := Default()
	cfg.AcceptEnv = "RESPECT_CONFIG_TEST_ACCEPT"
	for _, tt := range tests {
		t.Setenv(cfg.AcceptEnv, tt.value)
		if got := cfg.AcceptFromEnv(); got != tt.want {
			t.Errorf("AcceptFromEnv() with %q = %v, want %v", tt.value, got, tt.want)
		}
	}
}
