package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
)

// ScriptExecutionError reports the first command that exited non-zero. The
// remaining commands were not run.
type ScriptExecutionError struct {
	Command  string
	ExitCode int
}

func (e *ScriptExecutionError) Error() string {
	return fmt.Sprintf("script command %q exited with status %d", e.Command, e.ExitCode)
}

// Runner executes commands strictly one at a time with the device serial
// exported, so tools that honor ANDROID_SERIAL talk to the right device.
type Runner struct {
	Serial string
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

func (r *Runner) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

func (r *Runner) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}

// Run parses raw and executes every command through `sh -c`. Each command is
// logged before it starts, so the surrounding log lines frame its output.
// The first non-zero exit stops the sequence.
func (r *Runner) Run(ctx context.Context, raw string) error {
	commands := Parse(raw)
	if len(commands) == 0 {
		r.logger().Info("script contains no commands")
		return nil
	}
	for index, command := range commands {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.logger().Info("running script command",
			"step", index+1, "total", len(commands), "command", command)

		cmd := exec.CommandContext(ctx, "sh", "-c", command)
		cmd.Stdout = r.stdout()
		cmd.Stderr = r.stderr()
		cmd.Env = append(os.Environ(), "ANDROID_SERIAL="+r.Serial)

		if err := cmd.Run(); err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				return &ScriptExecutionError{Command: command, ExitCode: exitErr.ExitCode()}
			}
			return fmt.Errorf("run script command %q: %w", command, err)
		}
	}
	return nil
}
