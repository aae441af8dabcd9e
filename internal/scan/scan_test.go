package scan

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestInputsFiltersByExtensionCaseInsensitive(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "b.tif"))
	writeFile(t, filepath.Join(root, "a", "c.TIFF"))
	writeFile(t, filepath.Join(root, "a", "notes.txt"))
	writeFile(t, filepath.Join(root, "thumb.jpg"))

	inputs, err := Inputs(root, []string{".tif", ".tiff"})
	if err != nil {
		t.Fatal(err)
	}
	if len(inputs) != 2 {
		t.Fatalf("expected 2 inputs, got %d: %v", len(inputs), inputs)
	}
	for _, path := range inputs {
		if !filepath.IsAbs(path) {
			t.Fatalf("expected absolute path, got %q", path)
		}
	}
}

func TestInputsEmptyTree(t *testing.T) {
	inputs, err := Inputs(t.TempDir(), []string{".tif"})
	if err != nil {
		t.Fatal(err)
	}
	if len(inputs) != 0 {
		t.Fatalf("expected no inputs, got %v", inputs)
	}
}

func TestInputsMissingRoot(t *testing.T) {
	_, err := Inputs(filepath.Join(t.TempDir(), "absent"), []string{".tif"})
	if err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestInputsStableOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "one.tif"))
	writeFile(t, filepath.Join(root, "b", "two.tif"))
	writeFile(t, filepath.Join(root, "c", "three.tif"))

	first, err := Inputs(root, []string{".tif"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := Inputs(root, []string{".tif"})
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != len(second) {
		t.Fatalf("length mismatch: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("order differs at %d: %q vs %q", i, first[i], second[i])
		}
	}
}
