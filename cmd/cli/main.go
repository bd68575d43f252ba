package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tkoivun/aviary/android"
	"github.com/tkoivun/aviary/internal/adb"
	"github.com/tkoivun/aviary/internal/avd"
	"github.com/tkoivun/aviary/internal/emulator"
	"github.com/tkoivun/aviary/internal/environment"
	"github.com/tkoivun/aviary/internal/lifecycle"
	"github.com/tkoivun/aviary/internal/logging"
	"github.com/tkoivun/aviary/internal/manifest"
	"github.com/tkoivun/aviary/internal/script"
	"github.com/tkoivun/aviary/internal/sdktool"
	"github.com/tkoivun/aviary/internal/settings"
	"github.com/tkoivun/aviary/internal/toolchain"
)

const defaultLogLevel = "info"

func main() {
	var levelVar slog.LevelVar
	levelVar.Set(slog.LevelInfo)

	logger := logging.NewCLI(os.Stderr, &levelVar)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCommand(logger, &levelVar)
	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("command interrupted", "error", err)
			os.Exit(130)
		}
		logger.Error("command execution failed", "error", err)
		os.Exit(1)
	}
}

func newRootCommand(logger *slog.Logger, levelVar *slog.LevelVar) *cobra.Command {
	logLevel := defaultLogLevel

	root := &cobra.Command{
		Use:           "aviary",
		Short:         "CLI for 'aviary': Android virtual devices for automated build pipelines",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel, "Set log verbosity (debug, info, warning, error)")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level, err := parseLogLevel(logLevel)
		if err != nil {
			return err
		}
		if levelVar != nil {
			levelVar.Set(level)
		}
		return nil
	}

	root.AddCommand(
		newRunCommand(logger),
		newProvisionCommand(logger),
		newTargetsCommand(),
	)
	return root
}

// profileFlags are the device profile flags shared by run and provision.
type profileFlags struct {
	name          string
	apiLevel      int
	target        string
	arch          string
	device        string
	cores         int
	memory        int
	storage       string
	forceRecreate bool
}

func registerProfileFlags(cmd *cobra.Command, flags *profileFlags) {
	cmd.Flags().StringVar(&flags.name, "name", "aviary-device", "Device profile name")
	cmd.Flags().IntVar(&flags.apiLevel, "api-level", 29, "Android API level of the system image")
	cmd.Flags().StringVar(&flags.target, "target", "default", "System image target (default, google_apis, playstore, android-tv, android-wear)")
	cmd.Flags().StringVar(&flags.arch, "arch", "x86_64", "System image CPU architecture (x86, x86_64, arm64-v8a, armeabi-v7a)")
	cmd.Flags().StringVar(&flags.device, "device", "", "Hardware profile template, e.g. pixel_6")
	cmd.Flags().IntVar(&flags.cores, "cores", 0, "Virtual CPU count (0 keeps the image default)")
	cmd.Flags().IntVar(&flags.memory, "memory", 0, "Device memory in megabytes (0 keeps the image default)")
	cmd.Flags().StringVar(&flags.storage, "storage", "", "SD card size spec, e.g. 512M")
	cmd.Flags().BoolVar(&flags.forceRecreate, "force-recreate", false, "Delete and recreate an existing profile")
}

func registerToolchainFlags(cmd *cobra.Command, sdkRoot, avdHome *string) {
	cmd.Flags().StringVar(sdkRoot, "sdk-root", "", "Android SDK root (defaults to ANDROID_SDK_ROOT or ANDROID_HOME)")
	cmd.Flags().StringVar(avdHome, "avd-home", "", "AVD storage directory (defaults to ANDROID_AVD_HOME)")
}

func (f *profileFlags) profile() (avd.Profile, error) {
	target, err := android.ParseTarget(f.target)
	if err != nil {
		return avd.Profile{}, err
	}
	arch, err := android.ParseArch(f.arch)
	if err != nil {
		return avd.Profile{}, err
	}
	return avd.Profile{
		Name:          strings.TrimSpace(f.name),
		APILevel:      f.apiLevel,
		Target:        target,
		Arch:          arch,
		Device:        f.device,
		Cores:         f.cores,
		RAMMegabytes:  f.memory,
		Storage:       f.storage,
		ForceRecreate: f.forceRecreate,
	}, nil
}

type runFlags struct {
	profile       profileFlags
	channel       string
	hwKeyboard    bool
	launchOptions string
	port          int
	bootBudget    time.Duration
	script        string
	scriptFile    string
	manifestPath  string
	emulatorBuild string
	ndk           string
	cmake         string
	logDir        string
	sdkRoot       string
	avdHome       string
}

// applyManifest fills every flag the user did not set explicitly from the
// manifest. Explicit flags always win.
func (f *runFlags) applyManifest(cmd *cobra.Command, m manifest.Manifest) error {
	changed := cmd.Flags().Changed
	if !changed("name") && m.Name != "" {
		f.profile.name = m.Name
	}
	if !changed("api-level") && m.APILevel != 0 {
		f.profile.apiLevel = m.APILevel
	}
	if !changed("target") && m.Target != "" {
		f.profile.target = m.Target
	}
	if !changed("arch") && m.Arch != "" {
		f.profile.arch = m.Arch
	}
	if !changed("device") && m.Device != "" {
		f.profile.device = m.Device
	}
	if !changed("cores") && m.Cores != 0 {
		f.profile.cores = m.Cores
	}
	if !changed("memory") && m.MemoryMB != 0 {
		f.profile.memory = m.MemoryMB
	}
	if !changed("storage") && m.Storage != "" {
		f.profile.storage = m.Storage
	}
	if !changed("force-recreate") && m.ForceRecreate {
		f.profile.forceRecreate = true
	}
	if !changed("channel") && m.Channel != "" {
		f.channel = m.Channel
	}
	if !changed("hw-keyboard") && m.HardwareKeyboard {
		f.hwKeyboard = true
	}
	if !changed("launch-options") && m.LaunchOptions != "" {
		f.launchOptions = m.LaunchOptions
	}
	if !changed("port") && m.Port != 0 {
		f.port = m.Port
	}
	if !changed("boot-budget") && m.BootBudget != "" {
		budget, err := time.ParseDuration(m.BootBudget)
		if err != nil {
			return fmt.Errorf("manifest boot_budget: %w", err)
		}
		f.bootBudget = budget
	}
	if !changed("script") && m.Script != "" {
		f.script = m.Script
	}
	if !changed("script-file") && m.ScriptFile != "" {
		f.scriptFile = m.ScriptFile
	}
	if !changed("emulator-build") && m.EmulatorBuild != "" {
		f.emulatorBuild = m.EmulatorBuild
	}
	if !changed("ndk") && m.NDKVersion != "" {
		f.ndk = m.NDKVersion
	}
	if !changed("cmake") && m.CMakeVersion != "" {
		f.cmake = m.CMakeVersion
	}
	if !changed("log-dir") && m.LogDir != "" {
		f.logDir = m.LogDir
	}
	if !changed("sdk-root") && m.SDKRoot != "" {
		f.sdkRoot = m.SDKRoot
	}
	if !changed("avd-home") && m.AVDHome != "" {
		f.avdHome = m.AVDHome
	}
	return nil
}

func newRunCommand(logger *slog.Logger) *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Provision, boot, configure, and script a virtual device, then tear it down",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.manifestPath != "" {
				m, err := manifest.Load(flags.manifestPath)
				if err != nil {
					return err
				}
				if err := flags.applyManifest(cmd, m); err != nil {
					return err
				}
			}

			profile, err := flags.profile.profile()
			if err != nil {
				return err
			}
			channel, err := android.ParseChannel(flags.channel)
			if err != nil {
				return err
			}

			scriptText := flags.script
			if flags.scriptFile != "" {
				if scriptText != "" {
					return fmt.Errorf("--script and --script-file are mutually exclusive")
				}
				raw, err := os.ReadFile(flags.scriptFile)
				if err != nil {
					return fmt.Errorf("read script file: %w", err)
				}
				scriptText = string(raw)
			}

			cmdLogger := logger.With("command", "run")
			service, err := newLifecycleService(cmdLogger, flags)
			if err != nil {
				return err
			}

			return service.Run(cmd.Context(), lifecycle.RunRequest{
				Profile:          profile,
				Channel:          channel,
				HardwareKeyboard: flags.hwKeyboard,
				LaunchOptions:    flags.launchOptions,
				Port:             flags.port,
				Script:           scriptText,
				EmulatorBuild:    flags.emulatorBuild,
				NDKVersion:       flags.ndk,
				CMakeVersion:     flags.cmake,
			})
		},
	}

	registerProfileFlags(cmd, &flags.profile)
	cmd.Flags().StringVar(&flags.channel, "channel", "stable", "SDK release channel (stable, beta, dev, canary)")
	cmd.Flags().BoolVar(&flags.hwKeyboard, "hw-keyboard", false, "Enable the hardware keyboard")
	cmd.Flags().StringVar(&flags.launchOptions, "launch-options", "", "Raw emulator options replacing the computed defaults")
	cmd.Flags().IntVar(&flags.port, "port", emulator.DefaultPort, "Even console port in [5554, 5682]")
	cmd.Flags().DurationVar(&flags.bootBudget, "boot-budget", emulator.DefaultBootBudget, "Maximum time to wait for the device to boot")
	cmd.Flags().StringVar(&flags.script, "script", "", "Commands to run against the booted device, one per line")
	cmd.Flags().StringVar(&flags.scriptFile, "script-file", "", "File containing the script to run")
	cmd.Flags().StringVar(&flags.manifestPath, "manifest", "", "Run manifest file (.yaml, .json, or .toml)")
	cmd.Flags().StringVar(&flags.emulatorBuild, "emulator-build", "", "Requested emulator build (informational, the channel decides)")
	cmd.Flags().StringVar(&flags.ndk, "ndk", "", "NDK version to install, e.g. 26.1.10909125")
	cmd.Flags().StringVar(&flags.cmake, "cmake", "", "CMake version to install, e.g. 3.22.1")
	cmd.Flags().StringVar(&flags.logDir, "log-dir", filepath.Join(os.TempDir(), "aviary"), "Directory for emulator output logs")
	registerToolchainFlags(cmd, &flags.sdkRoot, &flags.avdHome)

	return cmd
}

// newLifecycleService wires the collaborators for one run. This is the only
// place concrete components meet.
func newLifecycleService(logger *slog.Logger, flags *runFlags) (*lifecycle.Service, error) {
	tc, err := toolchain.Resolve(flags.sdkRoot, flags.avdHome)
	if err != nil {
		return nil, err
	}
	env := environment.Detect()
	runner := &toolchain.ExecRunner{}
	serial := emulator.SerialForPort(flags.port)
	bridge := &adb.ExecBridge{
		Path:   tc.Adb(),
		Serial: serial,
		Runner: runner,
		Logger: logger.With("component", "adb"),
	}

	return &lifecycle.Service{
		Installer:    &sdktool.Installer{Toolchain: tc, Runner: runner, Logger: logger.With("component", "sdkmanager")},
		Provisioner:  &avd.Provisioner{Toolchain: tc, Runner: runner, Logger: logger.With("component", "avdmanager")},
		Launcher:     &emulator.Launcher{Toolchain: tc, LogDir: flags.logDir, Logger: logger.With("component", "emulator")},
		Monitor:      &emulator.Monitor{Bridge: bridge, BootBudget: flags.bootBudget, Logger: logger.With("component", "boot")},
		Configurator: &settings.Configurator{Bridge: bridge, Env: env, Logger: logger.With("component", "settings")},
		Terminator:   &emulator.Terminator{Bridge: bridge, Logger: logger.With("component", "teardown")},
		Script:       &script.Runner{Serial: serial, Logger: logger.With("component", "script")},
		Env:          env,
		Logger:       logger,
	}, nil
}

func newProvisionCommand(logger *slog.Logger) *cobra.Command {
	var (
		flags   profileFlags
		channel string
		sdkRoot string
		avdHome string
	)

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Install the system image and create the device profile without booting",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := flags.profile()
			if err != nil {
				return err
			}
			parsedChannel, err := android.ParseChannel(channel)
			if err != nil {
				return err
			}

			cmdLogger := logger.With("command", "provision")
			tc, err := toolchain.Resolve(sdkRoot, avdHome)
			if err != nil {
				return err
			}
			runner := &toolchain.ExecRunner{}

			installer := &sdktool.Installer{Toolchain: tc, Runner: runner, Logger: cmdLogger.With("component", "sdkmanager")}
			if err := installer.EnsureInstalled(cmd.Context(), sdktool.InstallRequest{
				APILevel: profile.APILevel,
				Target:   profile.Target,
				Arch:     profile.Arch,
				Channel:  parsedChannel,
			}); err != nil {
				return fmt.Errorf("install sdk packages: %w", err)
			}

			provisioner := &avd.Provisioner{Toolchain: tc, Runner: runner, Logger: cmdLogger.With("component", "avdmanager")}
			if err := provisioner.Provision(cmd.Context(), &profile); err != nil {
				return err
			}

			cmdLogger.Info("device profile ready", "profile", profile.Name)
			return nil
		},
	}

	registerProfileFlags(cmd, &flags)
	cmd.Flags().StringVar(&channel, "channel", "stable", "SDK release channel (stable, beta, dev, canary)")
	registerToolchainFlags(cmd, &sdkRoot, &avdHome)

	return cmd
}

func newTargetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List the supported API levels, targets, architectures, and channels",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "api levels: %d-%d\n", android.MinAPILevel, android.MaxAPILevel)

			fmt.Fprintln(out, "targets:")
			for _, target := range android.SupportedTargets() {
				fmt.Fprintf(out, "  %s\n", target)
			}

			fmt.Fprintln(out, "architectures:")
			for _, arch := range android.SupportedArches() {
				fmt.Fprintf(out, "  %s\n", arch)
			}

			fmt.Fprintln(out, "channels:")
			for _, channel := range android.SupportedChannels() {
				fmt.Fprintf(out, "  %s\t(%d)\n", channel, channel.Ordinal())
			}
			return nil
		},
	}
}

func parseLogLevel(value string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error", "err":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", value)
	}
}
