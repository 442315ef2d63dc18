package respect

import (
	"fmt"
	"path/filepath"
	"strings"
)

// separator joins identity components and extra name parts in file stems.
const separator = "__"

// defaultFuncStem is the stem used by ByFunction when no name parts are given,
// since the directory already names the test.
const defaultFuncStem = "data"

type makerKind int

const (
	byFile makerKind = iota
	byFunction
	byClass
	byDir
	byDirNamed
)

// PathMaker is a naming policy mapping a test Identity and a base directory
// to a resource directory and file stem. The set of variants is closed:
// ByFunction, ByClass, ByFile, ByDir and ByDirNamed.
type PathMaker struct {
	kind makerKind
	name string
}

var (
	// ByFile shares one directory per test source file. This is the default.
	ByFile = PathMaker{kind: byFile}

	// ByFunction gives every test a private directory.
	ByFunction = PathMaker{kind: byFunction}

	// ByClass shares one directory per top-level test (or per file when the
	// test has no class).
	ByClass = PathMaker{kind: byClass}

	// ByDir uses the implicit "resources" directory under the base directory.
	ByDir = PathMaker{kind: byDir, name: "resources"}
)

// ByDirNamed uses base/name regardless of the identity.
func ByDirNamed(name string) PathMaker {
	return PathMaker{kind: byDirNamed, name: name}
}

// PathMakerByName returns the variant named in configuration files:
// "file", "function", "class" or "dir".
func PathMakerByName(name string) (PathMaker, error) {
	switch strings.ToLower(name) {
	case "", "file":
		return ByFile, nil
	case "function":
		return ByFunction, nil
	case "class":
		return ByClass, nil
	case "dir":
		return ByDir, nil
	}
	return PathMaker{}, fmt.Errorf("unknown path maker %q", name)
}

// Dir returns the resource directory for id under base.
func (pm PathMaker) Dir(id Identity, base string) string {
	switch pm.kind {
	case byFunction:
		return filepath.Join(base, joinNonEmpty(id.Module, id.Class, id.Func))
	case byClass:
		return filepath.Join(base, joinNonEmpty(id.Module, id.Class))
	case byDir, byDirNamed:
		return filepath.Join(base, pm.name)
	default:
		return filepath.Join(base, id.Module)
	}
}

// Stem returns the file stem for id with the extra name parts appended.
// Components already encoded in the directory are left out.
func (pm PathMaker) Stem(id Identity, parts ...string) string {
	var lead []string
	switch pm.kind {
	case byFunction:
		if len(parts) == 0 {
			return defaultFuncStem
		}
	case byClass:
		lead = []string{id.Func}
	case byDir, byDirNamed:
		lead = []string{id.Module, id.Class, id.Func}
	default:
		lead = []string{id.Class, id.Func}
	}
	return joinNonEmpty(append(lead, parts...)...)
}

func (pm PathMaker) String() string {
	switch pm.kind {
	case byFunction:
		return "ByFunction"
	case byClass:
		return "ByClass"
	case byDir:
		return "ByDir"
	case byDirNamed:
		return "ByDirNamed(" + pm.name + ")"
	default:
		return "ByFile"
	}
}

// MakeDir resolves the resource directory for id under baseDir.
func MakeDir(id Identity, baseDir string, pm PathMaker) string {
	return pm.Dir(id, baseDir)
}

// MakePath resolves a resource file path. An empty ext yields a path
// without a trailing dot.
func MakePath(id Identity, baseDir string, pm PathMaker, parts []string, ext string) string {
	name := pm.Stem(id, parts...)
	if ext = strings.TrimPrefix(ext, "."); ext != "" {
		name += "." + ext
	}
	return filepath.Join(pm.Dir(id, baseDir), name)
}
