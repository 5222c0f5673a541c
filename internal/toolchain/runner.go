package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/underrout/callisto-release/internal/logfields"
)

// Command describes one external tool invocation.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory of the child process. Empty means the caller's directory.
	Dir string
	// Env entries are appended to the current environment.
	Env []string
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Runner executes commands. Tests substitute a fake.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExitError is returned when a tool ran but exited unsuccessfully.
type ExitError struct {
	Command Command
	Code    int
	Output  string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("%s exited with status %d: %s", e.Command, e.Code, e.Output)
	}
	return fmt.Sprintf("%s exited with status %d", e.Command, e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExecRunner runs commands with os/exec. When Stdout/Stderr are nil the output is captured
// and logged at debug level, and attached to the error on failure.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner returns a runner that captures tool output.
func NewExecRunner() *ExecRunner { return &ExecRunner{} }

func (r *ExecRunner) Run(ctx context.Context, c Command) error {
	if _, err := exec.LookPath(c.Name); err != nil {
		return fmt.Errorf("%s not found: %w", c.Name, err)
	}

	// #nosec G204 - command and arguments come from release configuration
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if r.Stdout != nil {
		cmd.Stdout = io.MultiWriter(r.Stdout, &stdout)
	}
	if r.Stderr != nil {
		cmd.Stderr = io.MultiWriter(r.Stderr, &stderr)
	}

	slog.Debug("Running external tool", logfields.Command(c.String()), logfields.Dir(c.Dir))
	err := cmd.Run()

	outStr := strings.TrimSpace(stdout.String())
	errStr := strings.TrimSpace(stderr.String())
	if outStr != "" && r.Stdout == nil {
		slog.Debug("tool stdout", logfields.Command(c.Name), slog.String("output", outStr))
	}
	if errStr != "" && r.Stderr == nil {
		slog.Debug("tool stderr", logfields.Command(c.Name), slog.String("error_output", errStr))
	}

	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	// Tools write errors to either stream.
	output := errStr
	if output == "" {
		output = outStr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Command: c, Code: exitErr.ExitCode(), Output: lastLines(output, 20), Err: err}
	}
	return fmt.Errorf("run %s: %w", c, err)
}

func lastLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
