package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// CommandResult carries the captured output of a finished command.
type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes an external command to completion. Implementations must
// populate the result as far as the failure mode allows.
type Runner interface {
	Run(ctx context.Context, stdin string, argv ...string) (CommandResult, error)
}

// ExecRunner runs commands on the host, capturing their output.
type ExecRunner struct {
	// Env holds extra environment entries appended to the host environment.
	Env []string
}

// Run executes argv[0] with the remaining arguments, feeding stdin when
// non-empty. A non-zero exit status is reported as an error alongside the
// captured output.
func (r ExecRunner) Run(ctx context.Context, stdin string, argv ...string) (CommandResult, error) {
	if len(argv) == 0 {
		return CommandResult{}, errors.New("no command provided")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := CommandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, fmt.Errorf("%s exited with status %d", argv[0], result.ExitCode)
		}
		return result, fmt.Errorf("run %s: %w", argv[0], err)
	}
	return result, nil
}
