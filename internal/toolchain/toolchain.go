// Package toolchain locates the SDK command-line tools and provides the
// runner used to invoke them.
package toolchain

import (
	"fmt"
	"os"
	"path/filepath"
)

// Toolchain resolves the on-disk locations of the SDK tools and the device
// profile storage.
type Toolchain struct {
	// SDKRoot is the SDK installation directory. Empty means the tools are
	// expected on PATH.
	SDKRoot string
	// AVDHome is the directory holding device profiles.
	AVDHome string
}

// Resolve builds a Toolchain from explicit values, falling back to the
// conventional environment variables and the user's home directory.
func Resolve(sdkRoot, avdHome string) (Toolchain, error) {
	if sdkRoot == "" {
		sdkRoot = os.Getenv("ANDROID_SDK_ROOT")
	}
	if sdkRoot == "" {
		sdkRoot = os.Getenv("ANDROID_HOME")
	}

	if avdHome == "" {
		avdHome = os.Getenv("ANDROID_AVD_HOME")
	}
	if avdHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Toolchain{}, fmt.Errorf("resolve device profile home: %w", err)
		}
		avdHome = filepath.Join(home, ".android", "avd")
	}

	return Toolchain{SDKRoot: sdkRoot, AVDHome: avdHome}, nil
}

// Avdmanager returns the profile manager binary.
func (t Toolchain) Avdmanager() string {
	return t.cmdlineTool("avdmanager")
}

// Sdkmanager returns the package manager binary.
func (t Toolchain) Sdkmanager() string {
	return t.cmdlineTool("sdkmanager")
}

// Emulator returns the device backing process binary.
func (t Toolchain) Emulator() string {
	if t.SDKRoot == "" {
		return "emulator"
	}
	return filepath.Join(t.SDKRoot, "emulator", "emulator")
}

// Adb returns the control bridge binary.
func (t Toolchain) Adb() string {
	if t.SDKRoot == "" {
		return "adb"
	}
	return filepath.Join(t.SDKRoot, "platform-tools", "adb")
}

// ProfileDir returns the on-disk directory of a named device profile.
func (t Toolchain) ProfileDir(name string) string {
	return filepath.Join(t.AVDHome, name+".avd")
}

// ProfileMarker returns the metadata file that marks a profile as existing.
func (t Toolchain) ProfileMarker(name string) string {
	return filepath.Join(t.AVDHome, name+".ini")
}

func (t Toolchain) cmdlineTool(name string) string {
	if t.SDKRoot == "" {
		return name
	}
	return filepath.Join(t.SDKRoot, "cmdline-tools", "latest", "bin", name)
}
