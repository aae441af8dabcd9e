package pathmap

import (
	"errors"
	"path/filepath"
	"strings"
)

// Key is the normalized identity joining an input file to its output:
// the slash-separated relative directory plus the basename with its
// extension removed.
type Key string

// ErrEmptyPath is returned when a caller passes an empty path.
var ErrEmptyPath = errors.New("pathmap: empty path")

// Mapper maps source paths under the input root to output paths under the
// output root. It performs pure path arithmetic and never touches the
// filesystem.
type Mapper struct {
	inputRoot  string
	outputRoot string
	outputExt  string
}

// New constructs a Mapper. outputExt should include the leading dot.
func New(inputRoot, outputRoot, outputExt string) *Mapper {
	return &Mapper{
		inputRoot:  filepath.Clean(inputRoot),
		outputRoot: filepath.Clean(outputRoot),
		outputExt:  outputExt,
	}
}

// OutputPathFor returns the canonical output path for a source file: the
// extension replaced with the canonical output extension and the file
// relocated from the input root to the output root, preserving the relative
// subdirectory structure. When the source cannot be expressed relative to
// the input root the file lands directly under the output root by basename.
func (m *Mapper) OutputPathFor(sourcePath string) (string, error) {
	if strings.TrimSpace(sourcePath) == "" {
		return "", ErrEmptyPath
	}

	rel, err := filepath.Rel(m.inputRoot, sourcePath)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(sourcePath)
	}

	return filepath.Join(m.outputRoot, replaceExt(rel, m.outputExt)), nil
}

// InputKey derives the join key for a path under the input root.
func (m *Mapper) InputKey(path string) (Key, error) {
	return KeyOf(path, m.inputRoot)
}

// OutputKey derives the join key for a path under the output root.
func (m *Mapper) OutputKey(path string) (Key, error) {
	return KeyOf(path, m.outputRoot)
}

// KeyOf strips the root prefix (tolerating a missing trailing separator)
// and the basename's extension. A path that does not live under root keys
// by basename alone. The same derivation must be applied to input and
// output paths or matching silently breaks.
func KeyOf(path, root string) (Key, error) {
	if strings.TrimSpace(path) == "" {
		return "", ErrEmptyPath
	}

	rel := filepath.Base(path)
	if root != "" {
		prefix := filepath.Clean(root)
		switch {
		case path == prefix:
			// Degenerate call: the path is the root itself.
			rel = ""
		case strings.HasPrefix(path, prefix+string(filepath.Separator)):
			rel = path[len(prefix)+1:]
		}
	}

	return Key(filepath.ToSlash(stripExt(rel))), nil
}

func replaceExt(path, ext string) string {
	return stripExt(path) + ext
}

// stripExt removes everything after the last dot in the basename. A name
// with no dot is returned unchanged.
func stripExt(path string) string {
	base := filepath.Base(path)
	idx := strings.LastIndex(base, ".")
	if idx <= 0 {
		return path
	}
	return path[:len(path)-(len(base)-idx)]
}
