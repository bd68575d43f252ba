package emulator

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestTerminatorGracefulShutdown(t *testing.T) {
	t.Parallel()

	proc := &stubProcess{running: true}
	bridge := &stubBridge{}
	bridge.onEmuKill = proc.stop
	terminator := &Terminator{Bridge: bridge, GracePeriod: time.Second, Logger: testLogger()}

	if err := terminator.Terminate(context.Background(), proc); err != nil {
		t.Fatalf("Terminate() error = %v, want nil", err)
	}
	if proc.killed {
		t.Error("process was force killed despite graceful shutdown")
	}
	_, _, emuKill := bridge.calls()
	if emuKill != 1 {
		t.Errorf("EmuKill calls = %d, want 1", emuKill)
	}
	if proc.released != 1 {
		t.Errorf("Release calls = %d, want 1", proc.released)
	}
}

func TestTerminatorForceKillsAfterGrace(t *testing.T) {
	t.Parallel()

	proc := &stubProcess{running: true}
	bridge := &stubBridge{}
	terminator := &Terminator{Bridge: bridge, GracePeriod: 50 * time.Millisecond, Logger: testLogger()}

	start := time.Now()
	err := terminator.Terminate(context.Background(), proc)
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("Terminate() error = %v, want nil", err)
	}
	if !proc.killed {
		t.Error("process was not force killed")
	}
	if elapsed < 50*time.Millisecond {
		t.Errorf("elapsed = %v, want at least the 50ms grace period", elapsed)
	}
}

func TestTerminatorReportsUnkillableProcess(t *testing.T) {
	t.Parallel()

	proc := &stubProcess{running: true, kept: true}
	bridge := &stubBridge{}
	terminator := &Terminator{Bridge: bridge, GracePeriod: 30 * time.Millisecond, Logger: testLogger()}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := terminator.Terminate(ctx, proc)
	if err == nil || !strings.Contains(err.Error(), "still running") {
		t.Fatalf("Terminate() error = %v, want still running", err)
	}
	if !proc.killed {
		t.Error("process was not force killed")
	}
}

func TestTerminatorNilProcessIsNoop(t *testing.T) {
	t.Parallel()

	bridge := &stubBridge{}
	terminator := &Terminator{Bridge: bridge, Logger: testLogger()}

	if err := terminator.Terminate(context.Background(), nil); err != nil {
		t.Fatalf("Terminate(nil) error = %v, want nil", err)
	}
	if _, _, emuKill := bridge.calls(); emuKill != 0 {
		t.Errorf("EmuKill calls = %d, want 0", emuKill)
	}
}

func TestTerminatorExitedProcessIsNoop(t *testing.T) {
	t.Parallel()

	proc := &stubProcess{running: false}
	bridge := &stubBridge{}
	terminator := &Terminator{Bridge: bridge, Logger: testLogger()}

	if err := terminator.Terminate(context.Background(), proc); err != nil {
		t.Fatalf("Terminate() error = %v, want nil", err)
	}
	if _, _, emuKill := bridge.calls(); emuKill != 0 {
		t.Errorf("EmuKill calls = %d, want 0", emuKill)
	}
	if proc.released != 1 {
		t.Errorf("Release calls = %d, want 1", proc.released)
	}
}

func TestTerminatorIsIdempotent(t *testing.T) {
	t.Parallel()

	proc := &stubProcess{running: true}
	bridge := &stubBridge{}
	bridge.onEmuKill = proc.stop
	terminator := &Terminator{Bridge: bridge, GracePeriod: time.Second, Logger: testLogger()}

	if err := terminator.Terminate(context.Background(), proc); err != nil {
		t.Fatalf("first Terminate() error = %v, want nil", err)
	}
	if err := terminator.Terminate(context.Background(), proc); err != nil {
		t.Fatalf("second Terminate() error = %v, want nil", err)
	}
	if _, _, emuKill := bridge.calls(); emuKill != 1 {
		t.Errorf("EmuKill calls = %d, want 1", emuKill)
	}
}
