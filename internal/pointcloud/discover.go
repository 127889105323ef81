package pointcloud

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"codeberg.org/mutker/laserscanqa/internal/errors"
)

// Discover returns the scan files under root in lexical order. Only the top
// level is searched unless recursive is set.
func Discover(root string, recursive bool) ([]string, error) {
	errFactory := errors.New()

	if root == "" {
		return nil, errFactory.WithData(ErrDiscoveryFailed, "root directory cannot be empty")
	}

	stat, err := os.Stat(root)
	if err != nil {
		return nil, errFactory.Wrap(ErrDiscoveryFailed, err)
	}
	if !stat.IsDir() {
		return nil, errFactory.WithData(ErrDiscoveryFailed, "path is not a directory: "+root)
	}

	var files []string
	walkFunc := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && !recursive {
				return filepath.SkipDir
			}
			return nil
		}

		if Supported(path) {
			files = append(files, path)
		}

		return nil
	}

	if err := filepath.WalkDir(root, walkFunc); err != nil {
		return nil, errFactory.Wrap(ErrDiscoveryFailed, err)
	}

	sort.Strings(files)

	return files, nil
}
