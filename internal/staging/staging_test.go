package staging

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewSlotCreatesUniqueDirectories(t *testing.T) {
	area := NewArea(t.TempDir(), 0)

	a, err := area.NewSlot("a/b.tif", 0)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Release()
	b, err := area.NewSlot("a/b.tif", 0)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Release()

	if a.Dir() == b.Dir() {
		t.Fatalf("expected unique slot dirs, got %q twice", a.Dir())
	}
	for _, slot := range []*Slot{a, b} {
		info, err := os.Stat(slot.Dir())
		if err != nil {
			t.Fatal(err)
		}
		if !info.IsDir() {
			t.Fatalf("slot %q is not a directory", slot.Dir())
		}
	}
}

func TestSlotPaths(t *testing.T) {
	area := NewArea(t.TempDir(), 0)
	slot, err := area.NewSlot("scan", 0)
	if err != nil {
		t.Fatal(err)
	}
	defer slot.Release()

	in := slot.InputPath("/data/in/a/scan.tiff")
	if filepath.Dir(in) != slot.Dir() || !strings.HasSuffix(in, ".tiff") {
		t.Fatalf("unexpected input path %q", in)
	}
	out := slot.OutputPath(".tif")
	if filepath.Dir(out) != slot.Dir() || !strings.HasSuffix(out, "output.tif") {
		t.Fatalf("unexpected output path %q", out)
	}
}

func TestSlotReleaseRemovesDirectory(t *testing.T) {
	area := NewArea(t.TempDir(), 0)
	slot, err := area.NewSlot("scan", 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(slot.InputPath("x.tif"), []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := slot.Release(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(slot.Dir()); !os.IsNotExist(err) {
		t.Fatalf("slot dir should be gone, stat err: %v", err)
	}

	// Idempotent.
	if err := slot.Release(); err != nil {
		t.Fatal(err)
	}
}

func TestNewSlotRefusesWhenBelowFloor(t *testing.T) {
	area := NewArea(t.TempDir(), 1)
	area.statfs = func(string) (uint64, error) {
		return 512 << 20, nil // 512 MiB free, floor is 1 GiB
	}

	_, err := area.NewSlot("scan", 1<<20)
	if !errors.Is(err, ErrInsufficientSpace) {
		t.Fatalf("expected ErrInsufficientSpace, got %v", err)
	}
}

func TestNewSlotAccountsForSourceSize(t *testing.T) {
	area := NewArea(t.TempDir(), 1)
	// 1 GiB floor plus 2x source must fit inside 3 GiB free.
	area.statfs = func(string) (uint64, error) {
		return 3 << 30, nil
	}

	slot, err := area.NewSlot("scan", 512<<20)
	if err != nil {
		t.Fatal(err)
	}
	slot.Release()

	if _, err := area.NewSlot("scan", 2<<30); !errors.Is(err, ErrInsufficientSpace) {
		t.Fatalf("expected ErrInsufficientSpace for oversized source, got %v", err)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"a/b.tif":    "a-b.tif",
		"  Scan 12 ": "scan-12",
		"???":        "item",
		"":           "item",
	}
	for input, want := range cases {
		if got := slugify(input); got != want {
			t.Errorf("slugify(%q) = %q, want %q", input, got, want)
		}
	}
}
