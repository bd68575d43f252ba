package emulator

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	DefaultGracePeriod = 20 * time.Second

	terminatePollInterval = 200 * time.Millisecond
	forceKillWait         = 5 * time.Second
)

// Terminator shuts an emulator process down: first politely through the
// bridge, then with a kill to the process group. Terminate is idempotent
// and tolerates a nil or already exited process, so callers can defer it
// unconditionally.
type Terminator struct {
	Bridge      ControlBridge
	GracePeriod time.Duration
	Logger      *slog.Logger
}

func (t *Terminator) logger() *slog.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return slog.Default()
}

func (t *Terminator) gracePeriod() time.Duration {
	if t.GracePeriod > 0 {
		return t.GracePeriod
	}
	return DefaultGracePeriod
}

// Terminate takes proc down and releases its log sink. It returns an error
// only when the process is still alive after the force kill.
func (t *Terminator) Terminate(ctx context.Context, proc Process) error {
	if proc == nil {
		t.logger().Debug("no emulator process to terminate")
		return nil
	}
	defer proc.Release()

	if !proc.Running() {
		t.logger().Debug("emulator already exited", "pid", proc.PID())
		return nil
	}

	graceCtx, cancel := context.WithTimeout(ctx, t.gracePeriod())
	defer cancel()

	if err := t.Bridge.EmuKill(graceCtx); err != nil {
		t.logger().Warn("graceful shutdown request failed",
			"serial", proc.Serial(), "error", err)
	}
	if t.waitExit(graceCtx, proc) {
		t.logger().Info("emulator terminated", "pid", proc.PID())
		return nil
	}

	t.logger().Warn("emulator ignored shutdown request, killing process group", "pid", proc.PID())
	if err := proc.Kill(); err != nil {
		return err
	}
	killCtx, cancelKill := context.WithTimeout(ctx, forceKillWait)
	defer cancelKill()
	if !t.waitExit(killCtx, proc) {
		return fmt.Errorf("emulator process %d still running after kill", proc.PID())
	}
	t.logger().Info("emulator killed", "pid", proc.PID())
	return nil
}

func (t *Terminator) waitExit(ctx context.Context, proc Process) bool {
	ticker := time.NewTicker(terminatePollInterval)
	defer ticker.Stop()
	for {
		if !proc.Running() {
			return true
		}
		select {
		case <-ctx.Done():
			return !proc.Running()
		case <-ticker.C:
		}
	}
}
