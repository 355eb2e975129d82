package pkgmanager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Runner starts external programs.
type Runner interface {
	// Output runs name with args and returns its standard output. A non-zero
	// exit is returned as an error.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	// Run executes name with args in dir, attached to the caller's terminal,
	// and returns its exit code.
	Run(ctx context.Context, dir, name string, args ...string) (int, error)
}

// ExecRunner runs programs with os/exec.
type ExecRunner struct {
	// Stdin, Stdout and Stderr can be set for testing; they default to the
	// process's own streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Output runs name and captures its standard output.
func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("running %s: %w", name, err)
	}
	return out, nil
}

// Run executes name in dir with inherited standard streams.
func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdin = r.Stdin
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}
	cmd.Stdout = r.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = r.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, fmt.Errorf("executing %s: %w", name, err)
	}
	return 0, nil
}
