package vips

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"tilepress/internal/services"
)

var commandContext = exec.CommandContext

// Tiling parameters for the produced TIFFs. Fixed by the output contract:
// readers expect deflate-compressed 256x256 tiles with a full pyramid.
const (
	tileWidth  = 256
	tileHeight = 256
)

// Client defines converter behaviour.
type Client interface {
	Convert(ctx context.Context, sourcePath, destPath string) error
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// CLI wraps the vips command-line converter.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "vips"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Binary returns the configured executable name.
func (c *CLI) Binary() string {
	return c.binary
}

// Convert runs vips tiffsave on sourcePath, producing a deflate-compressed
// tiled pyramidal TIFF at destPath. Synchronous; returns once the tool exits.
// On failure any partial artifact at destPath is removed.
func (c *CLI) Convert(ctx context.Context, sourcePath, destPath string) error {
	if strings.TrimSpace(sourcePath) == "" {
		return errors.New("source path required")
	}
	if strings.TrimSpace(destPath) == "" {
		return errors.New("destination path required")
	}

	args := []string{
		"tiffsave", sourcePath, destPath,
		"--compression", "deflate",
		"--tile",
		"--tile-width", fmt.Sprint(tileWidth),
		"--tile-height", fmt.Sprint(tileHeight),
		"--pyramid",
	}
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		_ = os.Remove(destPath)
		detail := strings.TrimSpace(string(output))
		if detail == "" {
			detail = err.Error()
		}
		return services.Wrap(services.ErrExternalTool, "converting", "run vips tiffsave", detail, err)
	}
	return nil
}

var _ Client = (*CLI)(nil)
