// Package lifecycle orchestrates one full device run: install, provision,
// launch, boot, configure, script, terminate.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tkoivun/aviary/android"
	"github.com/tkoivun/aviary/internal/avd"
	"github.com/tkoivun/aviary/internal/emulator"
	"github.com/tkoivun/aviary/internal/environment"
	"github.com/tkoivun/aviary/internal/sdktool"
)

// Installer puts the SDK components in place before any device work starts.
type Installer interface {
	EnsureInstalled(ctx context.Context, req sdktool.InstallRequest) error
}

// Provisioner creates or reuses the device profile.
type Provisioner interface {
	Provision(ctx context.Context, profile *avd.Profile) error
}

// Launcher acquires the backing process.
type Launcher interface {
	Launch(spec emulator.LaunchSpec) (emulator.Process, error)
}

// Monitor drives the process to readiness.
type Monitor interface {
	AwaitReady(ctx context.Context, proc emulator.Process) error
}

// Configurator shapes the device before launch and after boot.
type Configurator interface {
	PreBootEntries(hardwareKeyboard bool) map[string]string
	ApplyPostBoot(ctx context.Context) error
}

// Terminator releases the backing process. It must tolerate a nil process so
// the service can defer it before the process exists.
type Terminator interface {
	Terminate(ctx context.Context, proc emulator.Process) error
}

// ScriptRunner executes the caller's raw script against the ready device.
type ScriptRunner interface {
	Run(ctx context.Context, raw string) error
}

// RunRequest describes one device lifecycle run.
type RunRequest struct {
	Profile          avd.Profile
	Channel          android.Channel
	HardwareKeyboard bool
	LaunchOptions    string
	Port             int
	Script           string
	EmulatorBuild    string
	NDKVersion       string
	CMakeVersion     string
}

// Service runs the lifecycle against injected collaborators. One Service
// drives one device at a time; there is no concurrent-run support.
type Service struct {
	Installer    Installer
	Provisioner  Provisioner
	Launcher     Launcher
	Monitor      Monitor
	Configurator Configurator
	Terminator   Terminator
	Script       ScriptRunner
	Env          environment.Environment
	Logger       *slog.Logger
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Run executes one complete lifecycle. Teardown is deferred from the moment
// the process handle can exist, so every exit path releases it exactly once.
// A teardown failure is logged and never replaces the run error.
func (s *Service) Run(ctx context.Context, req RunRequest) error {
	log := s.logger().With("run_id", uuid.NewString())

	if err := req.Profile.Validate(); err != nil {
		return err
	}
	channel := req.Channel
	if channel == "" {
		channel = android.ChannelStable
	}
	if !channel.IsValid() {
		return &android.ValidationError{Field: "channel", Reason: fmt.Sprintf("%q is not supported", channel.String())}
	}

	spec, err := emulator.BuildLaunchSpec(req.Profile.Name, s.Env, req.LaunchOptions, req.Port)
	if err != nil {
		return err
	}

	log.Info("device lifecycle starting",
		"profile", req.Profile.Name,
		"system_image", req.Profile.SystemImage(),
		"serial", spec.Serial())

	if err := s.Installer.EnsureInstalled(ctx, sdktool.InstallRequest{
		APILevel:      req.Profile.APILevel,
		Target:        req.Profile.Target,
		Arch:          req.Profile.Arch,
		Channel:       channel,
		EmulatorBuild: req.EmulatorBuild,
		NDKVersion:    req.NDKVersion,
		CMakeVersion:  req.CMakeVersion,
	}); err != nil {
		return fmt.Errorf("install sdk packages: %w", err)
	}

	profile := req.Profile
	profile.Config = mergeEntries(profile.Config, s.Configurator.PreBootEntries(req.HardwareKeyboard))

	var proc emulator.Process
	defer func() {
		if err := s.Terminator.Terminate(context.WithoutCancel(ctx), proc); err != nil {
			log.Error("device teardown failed", "error", err)
		}
	}()

	if err := s.Provisioner.Provision(ctx, &profile); err != nil {
		return fmt.Errorf("provision device profile: %w", err)
	}

	launched, err := s.Launcher.Launch(spec)
	if err != nil {
		return fmt.Errorf("launch device: %w", err)
	}
	proc = launched

	if err := s.Monitor.AwaitReady(ctx, proc); err != nil {
		return fmt.Errorf("boot device: %w", err)
	}
	log.Info("device ready", "serial", proc.Serial(), "pid", proc.PID())

	if err := s.Configurator.ApplyPostBoot(ctx); err != nil {
		log.Warn("device configuration incomplete, continuing", "error", err)
	}

	if err := s.Script.Run(ctx, req.Script); err != nil {
		return fmt.Errorf("run script: %w", err)
	}

	log.Info("device lifecycle complete", "profile", req.Profile.Name)
	return nil
}

// mergeEntries fills gaps with computed entries; explicit entries win.
func mergeEntries(explicit, computed map[string]string) map[string]string {
	if len(computed) == 0 {
		return explicit
	}
	merged := make(map[string]string, len(explicit)+len(computed))
	for key, value := range computed {
		merged[key] = value
	}
	for key, value := range explicit {
		merged[key] = value
	}
	return merged
}
