// Package settings shapes a device for unattended pipeline use: hardware
// entries that must land in the profile before launch, and runtime settings
// pushed over the bridge once the device is ready.
package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tkoivun/aviary/internal/environment"
)

// ConfigError collects the post-boot settings that could not be applied. A
// partially configured device is still usable, so callers treat it as a
// warning rather than a failed run.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("device configuration incomplete: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Bridge is the slice of the control bridge the configurator needs.
type Bridge interface {
	Shell(ctx context.Context, args ...string) (string, error)
}

// Configurator owns the device settings aviary applies on behalf of the
// caller. The environment decides whether software rendering entries are
// needed; components never probe the host themselves.
type Configurator struct {
	Bridge Bridge
	Env    environment.Environment
	Logger *slog.Logger
}

func (c *Configurator) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// PreBootEntries returns the config.ini entries that must be in place before
// the device first boots. Returns an empty map when nothing is needed.
func (c *Configurator) PreBootEntries(hardwareKeyboard bool) map[string]string {
	entries := map[string]string{}
	if hardwareKeyboard {
		entries["hw.keyboard"] = "yes"
	}
	if c.Env.Virtualization == environment.VirtualizationDegraded {
		entries["hw.gpu.enabled"] = "yes"
		entries["hw.gpu.mode"] = "swiftshader_indirect"
	}
	return entries
}

// animationScales are the global settings that make UI timing deterministic
// when zeroed.
var animationScales = []string{
	"window_animation_scale",
	"transition_animation_scale",
	"animator_duration_scale",
}

// ApplyPostBoot pushes the runtime settings to a booted device. Each settings
// group is attempted even when an earlier one failed; the failures come back
// joined inside a single ConfigError.
func (c *Configurator) ApplyPostBoot(ctx context.Context) error {
	var errs []error
	if err := c.disableAnimations(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := c.disableSpellChecker(ctx); err != nil {
		errs = append(errs, err)
	}
	if joined := errors.Join(errs...); joined != nil {
		return &ConfigError{Err: joined}
	}
	c.logger().Info("device configured for pipeline use")
	return nil
}

func (c *Configurator) disableAnimations(ctx context.Context) error {
	for _, key := range animationScales {
		if _, err := c.Bridge.Shell(ctx, "settings", "put", "global", key, "0"); err != nil {
			return fmt.Errorf("disable %s: %w", key, err)
		}
	}
	return nil
}

func (c *Configurator) disableSpellChecker(ctx context.Context) error {
	if _, err := c.Bridge.Shell(ctx, "settings", "put", "secure", "spell_checker_enabled", "0"); err != nil {
		return fmt.Errorf("disable spell checker: %w", err)
	}
	return nil
}
