package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// IOMode selects what happens to a subprocess's stdout/stderr.
type IOMode int

const (
	// Inherit streams output to the runner's writers so the user sees progress.
	Inherit IOMode = iota
	// Silent discards output.
	Silent
)

func (m IOMode) String() string {
	if m == Silent {
		return "silent"
	}
	return "inherit"
}

// Command is one external invocation. Its exit status is the only output
// the pipelines consume.
type Command struct {
	Name string   // binary, resolved via PATH
	Args []string // arguments after the binary
	Dir  string   // absolute working directory
	Mode IOMode
}

// String returns the command line as a user would type it.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Runner executes commands to completion.
type Runner interface {
	Execute(ctx context.Context, cmd Command) error
}

// ErrToolNotFound is matched by errors.Is when a binary is not on PATH.
var ErrToolNotFound = errors.New("command not found")

// ToolNotFoundError reports a binary that could not be located.
type ToolNotFoundError struct {
	Name string
	Err  error
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", ErrToolNotFound, e.Name)
}

func (e *ToolNotFoundError) Is(target error) bool { return target == ErrToolNotFound }

func (e *ToolNotFoundError) Unwrap() error { return e.Err }

// ToolFailureError reports a subprocess that exited non-zero.
type ToolFailureError struct {
	Command  string
	ExitCode int
}

func (e *ToolFailureError) Error() string {
	return fmt.Sprintf("%q exited with status %d", e.Command, e.ExitCode)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// Stdout and Stderr can be set for testing; defaults to os.Stdout/os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// Execute blocks until cmd exits. It never retries.
func (r *ExecRunner) Execute(ctx context.Context, cmd Command) error {
	bin, err := exec.LookPath(cmd.Name)
	if err != nil {
		return &ToolNotFoundError{Name: cmd.Name, Err: err}
	}

	c := exec.CommandContext(ctx, bin, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdin = os.Stdin

	switch cmd.Mode {
	case Silent:
		c.Stdin = nil
		c.Stdout = io.Discard
		c.Stderr = io.Discard
	default:
		c.Stdout = r.Stdout
		if c.Stdout == nil {
			c.Stdout = os.Stdout
		}
		c.Stderr = r.Stderr
		if c.Stderr == nil {
			c.Stderr = os.Stderr
		}
	}

	if err := c.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ToolFailureError{Command: cmd.String(), ExitCode: exitErr.ExitCode()}
		}
		return fmt.Errorf("running %q: %w", cmd.String(), err)
	}
	return nil
}
