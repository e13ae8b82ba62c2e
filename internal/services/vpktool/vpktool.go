// Package vpktool wraps the external vpk archiver used both to extract
// reference documents from the base game package and to pack the staged
// directory tree into the final package file.
package vpktool

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"mappack/internal/services"
)

// Client wraps vpk CLI interactions.
type Client struct {
	binary string
	exec   services.Executor
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec services.Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// New constructs a vpk client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("vpk binary required")
	}
	client := &Client{binary: binary, exec: services.CommandExecutor{}}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Extract pulls the named files out of packagePath into destDir. The tool
// recreates each file's internal path under destDir; callers verify the
// files they need actually appeared, since the tool exits zero even when a
// requested entry does not exist.
func (c *Client) Extract(ctx context.Context, packagePath string, files []string, destDir string) error {
	if packagePath == "" {
		return errors.New("package path required")
	}
	if len(files) == 0 {
		return errors.New("no files requested")
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("create extraction directory: %w", err)
	}

	args := append([]string{"x", packagePath}, files...)
	_, err := c.exec.Run(ctx, c.binary, args, destDir)
	return err
}

// Pack archives the contents of stagingDir into a package file next to it
// (the tool's convention is <dir>.vpk) and moves it to outputPath. Missing
// tool output is an error: the build must never report success without a
// package file.
func (c *Client) Pack(ctx context.Context, stagingDir, outputPath string) error {
	if stagingDir == "" {
		return errors.New("staging directory required")
	}
	if outputPath == "" {
		return errors.New("output path required")
	}

	if _, err := c.exec.Run(ctx, c.binary, []string{stagingDir}, ""); err != nil {
		return err
	}

	produced := stagingDir + ".vpk"
	if _, err := os.Stat(produced); err != nil {
		return services.Wrap(services.ErrSubprocess, "vpktool", "pack",
			fmt.Sprintf("archiver produced no output at %s", produced), err)
	}
	if err := os.Rename(produced, outputPath); err != nil {
		return fmt.Errorf("move package to output: %w", err)
	}
	return nil
}
