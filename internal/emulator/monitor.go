package emulator

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	bootCompletedProp     = "sys.boot_completed"
	bootCompletedSentinel = "1"

	DefaultDeviceAttempts       = 5
	DefaultDeviceAttemptTimeout = 30 * time.Second
	DefaultPollInterval         = 2 * time.Second
	DefaultBootBudget           = 10 * time.Minute
)

// ControlBridge is the slice of the debug bridge the emulator package needs.
// adb.ExecBridge satisfies it.
type ControlBridge interface {
	WaitForDevice(ctx context.Context) error
	Getprop(ctx context.Context, name string) (string, error)
	EmuKill(ctx context.Context) error
}

// Monitor drives a freshly launched process through the boot state machine
// until it is ready, crashes, or exhausts the boot budget. Zero-valued
// tuning fields fall back to the package defaults.
type Monitor struct {
	Bridge         ControlBridge
	DeviceAttempts int
	AttemptTimeout time.Duration
	PollInterval   time.Duration
	BootBudget     time.Duration
	Logger         *slog.Logger
}

func (m *Monitor) logger() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return slog.Default()
}

func (m *Monitor) deviceAttempts() int {
	if m.DeviceAttempts > 0 {
		return m.DeviceAttempts
	}
	return DefaultDeviceAttempts
}

func (m *Monitor) attemptTimeout() time.Duration {
	if m.AttemptTimeout > 0 {
		return m.AttemptTimeout
	}
	return DefaultDeviceAttemptTimeout
}

func (m *Monitor) pollInterval() time.Duration {
	if m.PollInterval > 0 {
		return m.PollInterval
	}
	return DefaultPollInterval
}

func (m *Monitor) bootBudget() time.Duration {
	if m.BootBudget > 0 {
		return m.BootBudget
	}
	return DefaultBootBudget
}

// AwaitReady blocks until proc has fully booted. It returns a BootError when
// the process dies or the budget runs out, and the context error when ctx is
// cancelled first.
func (m *Monitor) AwaitReady(ctx context.Context, proc Process) error {
	deadline := time.Now().Add(m.bootBudget())

	m.transition(BootStateAwaitingDevice, proc)
	if err := m.awaitDevice(ctx, proc); err != nil {
		return err
	}

	m.transition(BootStateAwaitingBootComplete, proc)
	if err := m.awaitBootCompleted(ctx, proc, deadline); err != nil {
		return err
	}

	m.transition(BootStateReady, proc)
	return nil
}

func (m *Monitor) transition(state BootState, proc Process) {
	m.logger().Info("boot state changed", "state", state.String(), "serial", proc.Serial())
}

func (m *Monitor) awaitDevice(ctx context.Context, proc Process) error {
	attempts := m.deviceAttempts()
	for attempt := 1; attempt <= attempts; attempt++ {
		if !proc.Running() {
			return m.crashed(proc)
		}
		attemptCtx, cancel := context.WithTimeout(ctx, m.attemptTimeout())
		err := m.Bridge.WaitForDevice(attemptCtx)
		cancel()
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		m.logger().Debug("device not visible yet",
			"serial", proc.Serial(), "attempt", attempt, "error", err)
	}
	m.transition(BootStateTimedOut, proc)
	return &BootError{
		Cause:   BootCauseTimedOut,
		Message: fmt.Sprintf("device %s not visible after %d attempts", proc.Serial(), attempts),
	}
}

// awaitBootCompleted polls the boot property immediately and then once per
// interval. The deadline is only consulted after a failed poll, so the
// budget is exhausted at, never before, its nominal duration.
func (m *Monitor) awaitBootCompleted(ctx context.Context, proc Process, deadline time.Time) error {
	for {
		if !proc.Running() {
			return m.crashed(proc)
		}
		value, err := m.Bridge.Getprop(ctx, bootCompletedProp)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			m.logger().Debug("boot probe failed", "serial", proc.Serial(), "error", err)
		} else if value == bootCompletedSentinel {
			return nil
		}
		if !time.Now().Before(deadline) {
			m.transition(BootStateTimedOut, proc)
			return &BootError{
				Cause:   BootCauseTimedOut,
				Message: fmt.Sprintf("device %s did not finish booting within %s", proc.Serial(), m.bootBudget()),
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.pollInterval()):
		}
	}
}

func (m *Monitor) crashed(proc Process) error {
	m.transition(BootStateCrashed, proc)
	msg := fmt.Sprintf("emulator process %d exited during boot (log: %s)", proc.PID(), proc.LogPath())
	if err := proc.ExitErr(); err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return &BootError{Cause: BootCauseCrashed, Message: msg}
}
