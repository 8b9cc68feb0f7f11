// Package subproc is the thin OS layer of the wrapper: run a program to
// completion with inherited stdio, or drain a command's combined output
// line by line.
package subproc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// Streamer drains the combined stdout+stderr of commandLine, invoking onLine
// for every output line in order.
type Streamer func(ctx context.Context, commandLine string, onLine func(string)) error

// Runner runs commands to completion. Declared as an interface so the
// entry point can be tested without spawning processes.
type Runner interface {
	// RunAndWait executes prog with args, stdio inherited from the wrapper,
	// and returns the child's exit code.
	RunAndWait(ctx context.Context, prog string, args []string) (int, error)
}

// ExecRunner is the production Runner backed by os/exec.
type ExecRunner struct{}

func (ExecRunner) RunAndWait(ctx context.Context, prog string, args []string) (int, error) {
	// #nosec G204 -- prog/args are the caller's own compiler invocation
	cmd := exec.CommandContext(ctx, prog, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, fmt.Errorf("failed to run %s: %w", prog, err)
	}
	return 0, nil
}

// StreamCombined runs commandLine through /bin/sh with stderr folded into
// stdout, reading the merged stream incrementally. Draining as we read keeps
// the pipe from filling up before the child exits; a child that dies early
// simply yields whatever partial output it produced. A nonzero exit is not
// an error: the caller classifies the output either way.
func StreamCombined(ctx context.Context, commandLine string, onLine func(string)) error {
	// #nosec G204 -- commandLine is built from the wrapped invocation
	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", commandLine+" 2>&1")
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to open output pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %q: %w", commandLine, err)
	}
	scanner := bufio.NewScanner(stdout)
	// длинные командные строки (-cc1 со всеми путями) не влезают в дефолтный буфер
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		onLine(scanner.Text())
	}
	scanErr := scanner.Err()
	// Wait releases the process handle on every path.
	waitErr := cmd.Wait()
	if scanErr != nil {
		return fmt.Errorf("failed to read output of %q: %w", commandLine, scanErr)
	}
	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		return fmt.Errorf("failed waiting for %q: %w", commandLine, waitErr)
	}
	return nil
}
