package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/AndreyAkinshin/respect/internal/schema"
)

// Load reads, validates and parses a config file, applies defaults and
// returns warnings about ignored fields.
func Load(fsys afero.Fs, path string) (*Config, []string, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(path, data)
}

// Parse decodes config data; the format is chosen by the extension of path.
func Parse(path string, data []byte) (*Config, []string, error) {
	jsonData, err := toJSON(path, data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := schema.ValidateConfig(jsonData); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	cfg, warnings, err := LoadWithWarnings(path, jsonData)
	if err != nil {
		return nil, nil, err
	}

	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, warnings, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, warnings, nil
}

// LoadFrom finds the nearest config file above dir and loads it. When no
// file exists the defaults are returned with an empty path.
func LoadFrom(fsys afero.Fs, dir string) (cfg *Config, path string, warnings []string, err error) {
	path, err = Find(fsys, dir)
	if err != nil {
		return nil, "", nil, err
	}
	if path == "" {
		return Default(), "", nil, nil
	}
	cfg, warnings, err = Load(fsys, path)
	return cfg, path, warnings, err
}

// Find walks up from dir looking for one of FileNames. The walk stops after
// the first directory holding a go.mod file, or at the filesystem root.
// It returns "" when nothing is found.
func Find(fsys afero.Fs, dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve directory: %w", err)
	}

	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			ok, err := afero.Exists(fsys, candidate)
			if err != nil {
				return "", err
			}
			if ok {
				return candidate, nil
			}
		}

		if ok, _ := afero.Exists(fsys, filepath.Join(dir, "go.mod")); ok {
			return "", nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// ResolveResourcesDir returns the resources directory for tests in testDir.
func (c *Config) ResolveResourcesDir(testDir string) string {
	if filepath.IsAbs(c.ResourcesDir) {
		return c.ResourcesDir
	}
	return filepath.Join(testDir, filepath.FromSlash(c.ResourcesDir))
}

// AcceptFromEnv reports whether the accept environment variable holds a
// true value ("1", "true", "yes" or "on", case-insensitive).
func (c *Config) AcceptFromEnv() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(c.AcceptEnv))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func toJSON(path string, data []byte) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		if v == nil {
			v = map[string]any{}
		}
		return json.Marshal(v)
	default:
		return data, nil
	}
}
