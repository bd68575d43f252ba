package adb

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tkoivun/aviary/internal/toolchain"
)

type recordingRunner struct {
	calls  [][]string
	result toolchain.CommandResult
	err    error
}

func (r *recordingRunner) Run(_ context.Context, stdin string, argv ...string) (toolchain.CommandResult, error) {
	_ = stdin
	r.calls = append(r.calls, argv)
	return r.result, r.err
}

func TestGetpropTrimsOutput(t *testing.T) {
	t.Parallel()

	runner := &recordingRunner{result: toolchain.CommandResult{Stdout: "1\r\n"}}
	bridge := &ExecBridge{Path: "/sdk/adb", Serial: "emulator-5554", Runner: runner}

	got, err := bridge.Getprop(context.Background(), "sys.boot_completed")
	if err != nil {
		t.Fatalf("Getprop() error = %v", err)
	}
	if got != "1" {
		t.Fatalf("Getprop() = %q, want %q", got, "1")
	}

	want := []string{"/sdk/adb", "-s", "emulator-5554", "shell", "getprop", "sys.boot_completed"}
	if len(runner.calls) != 1 || strings.Join(runner.calls[0], " ") != strings.Join(want, " ") {
		t.Fatalf("adb argv = %v, want %v", runner.calls, want)
	}
}

func TestWaitForDeviceArgv(t *testing.T) {
	t.Parallel()

	runner := &recordingRunner{}
	bridge := &ExecBridge{Serial: "emulator-5556", Runner: runner}

	if err := bridge.WaitForDevice(context.Background()); err != nil {
		t.Fatalf("WaitForDevice() error = %v", err)
	}
	want := []string{"adb", "-s", "emulator-5556", "wait-for-device"}
	if strings.Join(runner.calls[0], " ") != strings.Join(want, " ") {
		t.Fatalf("adb argv = %v, want %v", runner.calls[0], want)
	}
}

func TestEmuKillWrapsErrors(t *testing.T) {
	t.Parallel()

	runner := &recordingRunner{err: errors.New("device offline")}
	bridge := &ExecBridge{Serial: "emulator-5554", Runner: runner}

	err := bridge.EmuKill(context.Background())
	if err == nil {
		t.Fatalf("EmuKill() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "device offline") {
		t.Fatalf("EmuKill() error = %v, want wrapped cause", err)
	}
}

func TestShellJoinsArguments(t *testing.T) {
	t.Parallel()

	runner := &recordingRunner{result: toolchain.CommandResult{Stdout: "ok\n"}}
	bridge := &ExecBridge{Serial: "emulator-5554", Runner: runner}

	got, err := bridge.Shell(context.Background(), "settings", "put", "global", "window_animation_scale", "0")
	if err != nil {
		t.Fatalf("Shell() error = %v", err)
	}
	if got != "ok" {
		t.Fatalf("Shell() = %q, want %q", got, "ok")
	}
	want := []string{"adb", "-s", "emulator-5554", "shell", "settings", "put", "global", "window_animation_scale", "0"}
	if strings.Join(runner.calls[0], " ") != strings.Join(want, " ") {
		t.Fatalf("adb argv = %v, want %v", runner.calls[0], want)
	}
}
