package reconcile

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"tilepress/internal/pathmap"
)

// CompletionSet holds the keys of every output produced by prior runs.
type CompletionSet map[pathmap.Key]struct{}

// Contains reports key membership.
func (s CompletionSet) Contains(key pathmap.Key) bool {
	_, ok := s[key]
	return ok
}

// ScanOutputs walks the output tree once, collecting a key for every file
// bearing the canonical output extension. An empty or nonexistent output
// tree yields an empty set, not an error: it simply means no prior
// completions.
func ScanOutputs(outputRoot, outputExt string) (CompletionSet, error) {
	set := CompletionSet{}

	err := filepath.WalkDir(outputRoot, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), outputExt) {
			return nil
		}
		key, err := pathmap.KeyOf(path, outputRoot)
		if err != nil {
			return err
		}
		set[key] = struct{}{}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return CompletionSet{}, nil
		}
		return nil, err
	}
	return set, nil
}

// Partition splits inputs into the pending list and a count of already
// completed items. Pending preserves the input (scan) order. Membership in
// the completion set drops the input; absence forwards it.
func Partition(inputs []string, set CompletionSet, inputRoot string) (pending []string, completed int, err error) {
	for _, input := range inputs {
		key, keyErr := pathmap.KeyOf(input, inputRoot)
		if keyErr != nil {
			return nil, 0, keyErr
		}
		if set.Contains(key) {
			completed++
			continue
		}
		pending = append(pending, input)
	}
	return pending, completed, nil
}
