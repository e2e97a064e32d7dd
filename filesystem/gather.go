package filesystem

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// GatherFiles expands roots into absolute file paths. Regular files are taken
// as given, directories are walked recursively and contribute the files whose
// extension is in extensions (case-insensitive). The result is sorted per root
// and free of duplicates.
func GatherFiles(roots []string, extensions []string) ([]string, error) {
	matches := func(name string) bool {
		ext := strings.ToLower(filepath.Ext(name))
		for _, e := range extensions {
			if strings.ToLower(e) == ext {
				return true
			}
		}
		return false
	}

	seen := make(map[string]bool)
	var paths []string

	appendAbsPath := func(path string) error {
		path, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("absolute path: %w", err)
		}
		if !seen[path] {
			seen[path] = true
			paths = append(paths, path)
		}
		return nil
	}

	for _, root := range roots {
		fi, err := os.Stat(root)
		if err != nil {
			return nil, err
		}

		if fi.Mode().IsRegular() {
			if err := appendAbsPath(root); err != nil {
				return nil, err
			}
		} else if fi.Mode().IsDir() {
			var found []string
			err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.Type().IsRegular() && matches(d.Name()) {
					found = append(found, path)
				}
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("walk %s: %w", root, err)
			}

			slices.Sort(found)
			for _, path := range found {
				if err := appendAbsPath(path); err != nil {
					return nil, err
				}
			}
		} else {
			return nil, fmt.Errorf("path '%s' neither directory nor file", root)
		}
	}

	return paths, nil
}
