package vips

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"tilepress/internal/services"
)

func TestConvertRequiresPaths(t *testing.T) {
	cli := NewCLI()
	if err := cli.Convert(context.Background(), "", "/out.tif"); err == nil {
		t.Fatal("expected error for empty source")
	}
	if err := cli.Convert(context.Background(), "/in.tif", ""); err == nil {
		t.Fatal("expected error for empty destination")
	}
}

func TestWithBinary(t *testing.T) {
	cli := NewCLI(WithBinary("/opt/vips/bin/vips"))
	if cli.Binary() != "/opt/vips/bin/vips" {
		t.Fatalf("binary override not applied: %q", cli.Binary())
	}
	// Empty override keeps the default.
	cli = NewCLI(WithBinary(""))
	if cli.Binary() != "vips" {
		t.Fatalf("expected default binary, got %q", cli.Binary())
	}
}

func TestConvertBuildsTiffsaveInvocation(t *testing.T) {
	var gotName string
	var gotArgs []string
	restore := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		gotName = name
		gotArgs = args
		return exec.CommandContext(ctx, "true")
	}
	defer func() { commandContext = restore }()

	cli := NewCLI(WithBinary("vips-test"))
	if err := cli.Convert(context.Background(), "/in/a.tif", "/out/a.tif"); err != nil {
		t.Fatal(err)
	}

	if gotName != "vips-test" {
		t.Fatalf("binary = %q", gotName)
	}
	joined := strings.Join(gotArgs, " ")
	for _, want := range []string{
		"tiffsave /in/a.tif /out/a.tif",
		"--compression deflate",
		"--tile",
		"--tile-width 256",
		"--tile-height 256",
		"--pyramid",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q: %q", want, joined)
		}
	}
}

func TestConvertFailureRemovesPartialArtifact(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "partial.tif")

	restore := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		// Simulate a converter that writes a partial file and then dies.
		if err := os.WriteFile(dest, []byte("partial"), 0o644); err != nil {
			t.Fatal(err)
		}
		return exec.CommandContext(ctx, "false")
	}
	defer func() { commandContext = restore }()

	cli := NewCLI()
	err := cli.Convert(context.Background(), filepath.Join(dir, "src.tif"), dest)
	if err == nil {
		t.Fatal("expected conversion failure")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Fatalf("partial artifact should be removed, stat err: %v", statErr)
	}
}
