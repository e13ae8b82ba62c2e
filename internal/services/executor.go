package services

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Executor abstracts command execution for testability. Implementations
// must wait for the process to exit before returning so callers can trust
// the exit status.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, workDir string) (string, error)
}

// CommandExecutor runs real processes via os/exec.
type CommandExecutor struct{}

// Run executes the binary and returns its combined output. A non-zero exit
// is reported as ErrSubprocess with the captured exit code and output tail.
func (CommandExecutor) Run(ctx context.Context, binary string, args []string, workDir string) (string, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	if workDir != "" {
		cmd.Dir = workDir
	}
	output, err := cmd.CombinedOutput()
	text := string(output)
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return text, Wrap(ErrSubprocess, binary, "run",
				fmt.Sprintf("exit code %d: %s", exitErr.ExitCode(), outputTail(text)), nil)
		}
		return text, Wrap(ErrSubprocess, binary, "run", "start failed", err)
	}
	return text, nil
}

func outputTail(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) == 0 {
		return ""
	}
	const keep = 3
	if len(lines) > keep {
		lines = lines[len(lines)-keep:]
	}
	return strings.Join(lines, " | ")
}
