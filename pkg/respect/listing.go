package respect

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar"
	"github.com/spf13/afero"
)

// ListOptions selects resources in a directory.
type ListOptions struct {
	// Pattern is matched against base names. Empty means "*".
	Pattern string

	// Exclude drops names matching any of these patterns.
	Exclude []string

	// StripExt removes each name's own extension.
	StripExt bool

	// StripSuffix removes this literal suffix (e.g. ".json") where present.
	// Ignored when StripExt is set.
	StripSuffix string
}

// ListDir returns the sorted base names of entries in dir matching pattern
// and none of the exclude patterns. Patterns use doublestar syntax, so
// alternatives like "*.{json,yaml}" work. A missing dir yields no names.
func ListDir(fsys afero.Fs, dir, pattern string, exclude ...string) ([]string, error) {
	if pattern == "" {
		pattern = "*"
	}

	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		ok, err := doublestar.Match(pattern, name)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		excluded, err := matchAny(exclude, name)
		if err != nil {
			return nil, err
		}
		if !excluded {
			names = append(names, name)
		}
	}

	sort.Strings(names)
	return names, nil
}

// ListResources lists dir with ListDir and applies the extension stripping
// in opts.
func ListResources(fsys afero.Fs, dir string, opts ListOptions) ([]string, error) {
	names, err := ListDir(fsys, dir, opts.Pattern, opts.Exclude...)
	if err != nil {
		return nil, err
	}

	switch {
	case opts.StripExt:
		for i, name := range names {
			names[i] = strings.TrimSuffix(name, filepath.Ext(name))
		}
	case opts.StripSuffix != "":
		for i, name := range names {
			names[i] = strings.TrimSuffix(name, opts.StripSuffix)
		}
	}
	return names, nil
}

func matchAny(patterns []string, name string) (bool, error) {
	for _, p := range patterns {
		ok, err := doublestar.Match(p, name)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// IsActualFile reports whether name is a file written for a failed
// comparison, such as "TestScenario__actual.json".
func IsActualFile(name string) bool {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return strings.HasSuffix(stem, "__"+actualPart)
}
