package scan

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Inputs walks root and returns the absolute path of every regular file
// whose name ends in one of the given extensions, compared
// case-insensitively. Extensions include the leading dot.
func Inputs(root string, extensions []string) ([]string, error) {
	exts := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		exts[strings.ToLower(ext)] = struct{}{}
	}

	var found []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if _, ok := exts[strings.ToLower(filepath.Ext(entry.Name()))]; !ok {
			return nil
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		found = append(found, abs)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}
