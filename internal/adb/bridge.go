// Package adb drives the control bridge of a running device through the adb
// binary. A bridge is bound to one device serial and is only meaningful
// while the backing process is alive.
package adb

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tkoivun/aviary/internal/toolchain"
)

// ExecBridge talks to one device by invoking adb.
type ExecBridge struct {
	// Path is the adb binary. Defaults to "adb" on PATH.
	Path string
	// Serial selects the device for every invocation.
	Serial string
	// Runner executes the adb commands. Defaults to toolchain.ExecRunner.
	Runner toolchain.Runner
	// Logger receives bridge-level debug output.
	Logger *slog.Logger
}

func (b *ExecBridge) path() string {
	if b.Path != "" {
		return b.Path
	}
	return "adb"
}

func (b *ExecBridge) runner() toolchain.Runner {
	if b.Runner != nil {
		return b.Runner
	}
	return toolchain.ExecRunner{}
}

func (b *ExecBridge) logger() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}

// WaitForDevice blocks until the device registers with the bridge or the
// context expires.
func (b *ExecBridge) WaitForDevice(ctx context.Context) error {
	b.logger().Debug("waiting for device registration", "serial", b.Serial)
	_, err := b.run(ctx, "wait-for-device")
	if err != nil {
		return fmt.Errorf("wait for device %s: %w", b.Serial, err)
	}
	return nil
}

// Getprop reads a system property from the device. The returned value is
// trimmed of surrounding whitespace.
func (b *ExecBridge) Getprop(ctx context.Context, key string) (string, error) {
	result, err := b.run(ctx, "shell", "getprop", key)
	if err != nil {
		return "", fmt.Errorf("getprop %s: %w", key, err)
	}
	return strings.TrimSpace(result.Stdout), nil
}

// Shell runs a command on the device and returns its trimmed output.
func (b *ExecBridge) Shell(ctx context.Context, args ...string) (string, error) {
	result, err := b.run(ctx, append([]string{"shell"}, args...)...)
	if err != nil {
		return "", fmt.Errorf("shell %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(result.Stdout), nil
}

// EmuKill asks the emulated device to shut down.
func (b *ExecBridge) EmuKill(ctx context.Context) error {
	b.logger().Debug("requesting emulator shutdown", "serial", b.Serial)
	if _, err := b.run(ctx, "emu", "kill"); err != nil {
		return fmt.Errorf("emu kill: %w", err)
	}
	return nil
}

func (b *ExecBridge) run(ctx context.Context, args ...string) (toolchain.CommandResult, error) {
	argv := []string{b.path()}
	if b.Serial != "" {
		argv = append(argv, "-s", b.Serial)
	}
	argv = append(argv, args...)
	return b.runner().Run(ctx, "", argv...)
}
