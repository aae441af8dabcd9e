package staging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"
)

// ErrInsufficientSpace is returned when staging a file would drop free space
// on the staging filesystem below the configured floor.
var ErrInsufficientSpace = errors.New("staging: insufficient free space")

// statfsFunc allows tests to stub filesystem stats.
type statfsFunc func(path string) (free uint64, err error)

// Area is the root of the staging tier.
type Area struct {
	root         string
	minFreeBytes uint64
	statfs       statfsFunc
}

// NewArea constructs a staging area rooted at dir, refusing new slots when
// free space would fall below minFreeGiB.
func NewArea(dir string, minFreeGiB int) *Area {
	var floor uint64
	if minFreeGiB > 0 {
		floor = uint64(minFreeGiB) << 30
	}
	return &Area{root: filepath.Clean(dir), minFreeBytes: floor, statfs: realStatfs}
}

// Root returns the staging root directory.
func (a *Area) Root() string {
	return a.root
}

// NewSlot allocates a scratch directory for one conversion. stem names the
// item for operator-readable directory listings; uniqueness comes from the
// UUID suffix.
func (a *Area) NewSlot(stem string, sourceSize int64) (*Slot, error) {
	if strings.TrimSpace(a.root) == "" {
		return nil, errors.New("staging: root not configured")
	}
	if err := a.checkCapacity(sourceSize); err != nil {
		return nil, err
	}

	name := slugify(stem) + "-" + uuid.NewString()
	dir := filepath.Join(a.root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("staging: create slot: %w", err)
	}
	return &Slot{dir: dir}, nil
}

// checkCapacity verifies the staging filesystem can absorb need bytes for
// both the staged input and the converted output without crossing the floor.
func (a *Area) checkCapacity(need int64) error {
	if a.minFreeBytes == 0 {
		return nil
	}
	free, err := a.statfs(a.root)
	if err != nil {
		return fmt.Errorf("staging: statfs: %w", err)
	}
	required := uint64(0)
	if need > 0 {
		// Staged input plus converted output; the pyramid adds roughly a
		// third on top of the base image, so double is a safe bound.
		required = uint64(need) * 2
	}
	if free < a.minFreeBytes+required {
		return fmt.Errorf("%w: %d bytes free, need %d plus %d floor",
			ErrInsufficientSpace, free, required, a.minFreeBytes)
	}
	return nil
}

// Slot is the per-item scratch directory. Owned exclusively by the worker
// handling the item.
type Slot struct {
	dir string
}

// Dir returns the slot directory.
func (s *Slot) Dir() string {
	return s.dir
}

// InputPath is where the staged copy of the source lands.
func (s *Slot) InputPath(sourcePath string) string {
	return filepath.Join(s.dir, "input"+filepath.Ext(sourcePath))
}

// OutputPath is where the converter writes before final placement.
func (s *Slot) OutputPath(outputExt string) string {
	return filepath.Join(s.dir, "output"+outputExt)
}

// Release removes the slot directory and everything in it. Safe to call
// multiple times and on every exit path.
func (s *Slot) Release() error {
	if s == nil || s.dir == "" {
		return nil
	}
	return os.RemoveAll(s.dir)
}

func slugify(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	slug := strings.Trim(b.String(), "-_.")
	if slug == "" {
		return "item"
	}
	return slug
}

// FreeBytes reports free space on the filesystem holding path.
func FreeBytes(path string) (uint64, error) {
	return realStatfs(path)
}

func realStatfs(path string) (uint64, error) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return 0, err
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}
