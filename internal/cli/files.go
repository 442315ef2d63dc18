package cli

import (
	"os"

	"github.com/bmatcuk/doublestar"
	"github.com/spf13/afero"

	"github.com/AndreyAkinshin/respect/internal/errors"
	"github.com/AndreyAkinshin/respect/pkg/respect"
)

// walkResources returns the files under dir, in lexical order, whose base
// names satisfy keep.
func walkResources(fsys afero.Fs, dir string, keep func(name string) (bool, error)) ([]string, error) {
	info, err := fsys.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("directory", dir)
		}
		return nil, errors.ResourceError("", dir, err)
	}
	if !info.IsDir() {
		return nil, errors.Configf("%s is not a directory", dir)
	}

	var files []string
	err = afero.Walk(fsys, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		ok, err := keep(info.Name())
		if err != nil {
			return err
		}
		if ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// matchingResources returns the resources under dir matching pattern,
// leaving out actual-value files.
func matchingResources(fsys afero.Fs, dir, pattern string) ([]string, error) {
	return walkResources(fsys, dir, func(name string) (bool, error) {
		if respect.IsActualFile(name) {
			return false, nil
		}
		ok, err := doublestar.Match(pattern, name)
		if err != nil {
			return false, errors.Configf("invalid pattern %q: %v", pattern, err)
		}
		return ok, nil
	})
}

// codecFlag resolves a --codec value and the default pattern for it.
func codecFlag(name, pattern string) (respect.Codec, string, error) {
	codec, err := respect.CodecByName(name)
	if err != nil {
		return nil, "", errors.Config(err.Error())
	}
	if pattern == "" {
		pattern = "*." + codec.Ext()
	}
	return codec, pattern, nil
}
