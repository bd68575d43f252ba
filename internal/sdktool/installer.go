// Package sdktool keeps the host's Android SDK components in the state a run
// needs, driving sdkmanager non-interactively.
package sdktool

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tkoivun/aviary/android"
	"github.com/tkoivun/aviary/internal/toolchain"
)

// licenseAnswers feeds the license prompts sdkmanager may raise. Extra
// answers beyond what is asked are discarded by the tool.
const licenseAnswers = "y\ny\ny\ny\ny\ny\ny\ny\n"

// InstallRequest names the SDK components one run depends on.
type InstallRequest struct {
	APILevel int
	Target   android.Target
	Arch     android.Arch
	Channel  android.Channel

	// EmulatorBuild is accepted for compatibility with callers that pin
	// emulator builds. sdkmanager cannot install a specific build number,
	// the channel decides what ships.
	EmulatorBuild string
	NDKVersion    string
	CMakeVersion  string
}

// Packages lists the sdkmanager package paths the request resolves to.
func (r InstallRequest) Packages() []string {
	packages := []string{
		"platform-tools",
		"emulator",
		fmt.Sprintf("system-images;android-%d;%s;%s", r.APILevel, r.Target, r.Arch),
		fmt.Sprintf("platforms;android-%d", r.APILevel),
	}
	if r.NDKVersion != "" {
		packages = append(packages, "ndk;"+r.NDKVersion)
	}
	if r.CMakeVersion != "" {
		packages = append(packages, "cmake;"+r.CMakeVersion)
	}
	return packages
}

// Installer ensures SDK components are present before any device work
// starts.
type Installer struct {
	Toolchain toolchain.Toolchain
	Runner    toolchain.Runner
	Logger    *slog.Logger
}

func (i *Installer) runner() toolchain.Runner {
	if i.Runner != nil {
		return i.Runner
	}
	return toolchain.ExecRunner{}
}

func (i *Installer) logger() *slog.Logger {
	if i.Logger != nil {
		return i.Logger
	}
	return slog.Default()
}

// EnsureInstalled installs the requested components. sdkmanager treats
// already-installed packages as no-ops, so calling this on every run is
// cheap once the host is warm.
func (i *Installer) EnsureInstalled(ctx context.Context, req InstallRequest) error {
	channel := req.Channel
	if channel == "" {
		channel = android.ChannelStable
	}
	if req.EmulatorBuild != "" {
		i.logger().Warn("emulator build pinning is not supported, the release channel decides the build",
			"requested_build", req.EmulatorBuild, "channel", channel.String())
	}

	packages := req.Packages()
	argv := append([]string{
		i.Toolchain.Sdkmanager(),
		fmt.Sprintf("--channel=%d", channel.Ordinal()),
	}, packages...)

	i.logger().Info("ensuring sdk packages", "channel", channel.String(), "packages", strings.Join(packages, " "))
	result, err := i.runner().Run(ctx, licenseAnswers, argv...)
	if err != nil {
		detail := strings.TrimSpace(result.Stderr)
		if detail == "" {
			detail = err.Error()
		}
		return fmt.Errorf("install sdk packages: %s", detail)
	}
	return nil
}
