package avd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tkoivun/aviary/internal/toolchain"
)

// ProvisioningError reports a failed profile creation or deletion.
type ProvisioningError struct {
	Message string
}

func (e *ProvisioningError) Error() string {
	return e.Message
}

// promptAnswer declines any interactive confirmation (such as the custom
// hardware profile question) so creation stays non-interactive.
const promptAnswer = "no\n"

// Provisioner creates device profiles through avdmanager and writes their
// hardware characteristics into the persisted configuration.
type Provisioner struct {
	Toolchain toolchain.Toolchain
	// Runner executes avdmanager. Defaults to toolchain.ExecRunner.
	Runner toolchain.Runner
	Logger *slog.Logger
}

func (p *Provisioner) runner() toolchain.Runner {
	if p.Runner != nil {
		return p.Runner
	}
	return toolchain.ExecRunner{}
}

func (p *Provisioner) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

// Provision ensures the named profile exists. An existing profile is reused
// unchanged unless ForceRecreate is set, in which case it is deleted and
// created fresh. Hardware characteristics are persisted after creation;
// entries in profile.Config are persisted before every launch.
func (p *Provisioner) Provision(ctx context.Context, profile *Profile) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	logger := p.logger().With("profile", profile.Name)

	exists := p.profileExists(profile.Name)
	if exists && profile.ForceRecreate {
		logger.Info("deleting existing device profile")
		if err := p.delete(ctx, profile.Name); err != nil {
			return err
		}
		exists = false
	}

	created := false
	if exists {
		logger.Info("reusing existing device profile")
	} else {
		logger.Info("creating device profile", "system_image", profile.SystemImage())
		if err := p.create(ctx, profile); err != nil {
			return err
		}
		created = true
	}

	return p.applyConfig(profile, created)
}

func (p *Provisioner) profileExists(name string) bool {
	if _, err := os.Stat(p.Toolchain.ProfileMarker(name)); err == nil {
		return true
	}
	_, err := os.Stat(p.Toolchain.ProfileDir(name))
	return err == nil
}

func (p *Provisioner) create(ctx context.Context, profile *Profile) error {
	argv := createCommand(p.Toolchain, profile)
	result, err := p.runner().Run(ctx, promptAnswer, argv...)
	if err != nil {
		return &ProvisioningError{
			Message: fmt.Sprintf("create device profile %s: %v%s", profile.Name, err, commandDetail(result)),
		}
	}
	return nil
}

func (p *Provisioner) delete(ctx context.Context, name string) error {
	argv := deleteCommand(p.Toolchain, name)
	result, err := p.runner().Run(ctx, "", argv...)
	if err != nil {
		return &ProvisioningError{
			Message: fmt.Sprintf("delete device profile %s: %v%s", name, err, commandDetail(result)),
		}
	}
	return nil
}

func (p *Provisioner) applyConfig(profile *Profile, created bool) error {
	entries := map[string]string{}
	if created {
		for key, value := range profile.hardwareEntries() {
			entries[key] = value
		}
	}
	for key, value := range profile.Config {
		entries[key] = value
	}
	if len(entries) == 0 {
		return nil
	}

	dir := p.Toolchain.ProfileDir(profile.Name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &ProvisioningError{Message: fmt.Sprintf("ensure profile directory: %v", err)}
	}
	if err := updateConfigFile(filepath.Join(dir, "config.ini"), entries); err != nil {
		return &ProvisioningError{Message: fmt.Sprintf("apply profile configuration: %v", err)}
	}
	return nil
}

func createCommand(tc toolchain.Toolchain, profile *Profile) []string {
	argv := []string{
		tc.Avdmanager(),
		"create", "avd",
		"--name", profile.Name,
		"--package", profile.SystemImage(),
	}
	if profile.Device != "" {
		argv = append(argv, "--device", profile.Device)
	}
	return argv
}

func deleteCommand(tc toolchain.Toolchain, name string) []string {
	return []string{tc.Avdmanager(), "delete", "avd", "--name", name}
}

func commandDetail(result toolchain.CommandResult) string {
	detail := strings.TrimSpace(result.Stderr)
	if detail == "" {
		return ""
	}
	return ": " + detail
}
