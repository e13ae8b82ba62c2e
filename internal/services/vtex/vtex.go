// Package vtex wraps the external texture compiler that turns preview
// images into the engine's thumbnail format.
package vtex

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mappack/internal/services"
)

// Client wraps vtex CLI interactions.
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

// New constructs a vtex client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("vtex binary required")
	}
	client := &Client{binary: binary, exec: services.CommandExecutor{}}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Compile converts imagePath into a compiled texture in destDir and returns
// the produced file path.
func (c *Client) Compile(ctx context.Context, imagePath, destDir string) (string, error) {
	if imagePath == "" {
		return "", errors.New("image path required")
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create thumbnail directory: %w", err)
	}

	args := []string{"-nopause", "-outdir", destDir, imagePath}
	if _, err := c.exec.Run(ctx, c.binary, args, ""); err != nil {
		return "", err
	}

	base := filepath.Base(imagePath)
	produced := filepath.Join(destDir, strings.TrimSuffix(base, filepath.Ext(base))+".vtf")
	if _, err := os.Stat(produced); err != nil {
		return "", services.Wrap(services.ErrSubprocess, "vtex", "compile",
			fmt.Sprintf("compiler produced no output at %s", produced), err)
	}
	return produced, nil
}
