// Package manifest loads run manifests, the file form of the run command's
// flags. Zero values mean "unspecified": explicitly set flags win over
// manifest values, and defaults fill whatever remains.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Manifest mirrors the run command's flags.
type Manifest struct {
	Name             string `json:"name" yaml:"name" toml:"name"`
	APILevel         int    `json:"api_level" yaml:"api_level" toml:"api_level"`
	Target           string `json:"target" yaml:"target" toml:"target"`
	Arch             string `json:"arch" yaml:"arch" toml:"arch"`
	Channel          string `json:"channel" yaml:"channel" toml:"channel"`
	Device           string `json:"device" yaml:"device" toml:"device"`
	Cores            int    `json:"cores" yaml:"cores" toml:"cores"`
	MemoryMB         int    `json:"memory_mb" yaml:"memory_mb" toml:"memory_mb"`
	Storage          string `json:"storage" yaml:"storage" toml:"storage"`
	ForceRecreate    bool   `json:"force_recreate" yaml:"force_recreate" toml:"force_recreate"`
	HardwareKeyboard bool   `json:"hw_keyboard" yaml:"hw_keyboard" toml:"hw_keyboard"`
	LaunchOptions    string `json:"launch_options" yaml:"launch_options" toml:"launch_options"`
	Port             int    `json:"port" yaml:"port" toml:"port"`
	BootBudget       string `json:"boot_budget" yaml:"boot_budget" toml:"boot_budget"`
	Script           string `json:"script" yaml:"script" toml:"script"`
	ScriptFile       string `json:"script_file" yaml:"script_file" toml:"script_file"`
	EmulatorBuild    string `json:"emulator_build" yaml:"emulator_build" toml:"emulator_build"`
	NDKVersion       string `json:"ndk" yaml:"ndk" toml:"ndk"`
	CMakeVersion     string `json:"cmake" yaml:"cmake" toml:"cmake"`
	LogDir           string `json:"log_dir" yaml:"log_dir" toml:"log_dir"`
	AVDHome          string `json:"avd_home" yaml:"avd_home" toml:"avd_home"`
	SDKRoot          string `json:"sdk_root" yaml:"sdk_root" toml:"sdk_root"`
}

// Load reads a manifest based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Manifest, error) {
	var m Manifest
	if path == "" {
		return m, fmt.Errorf("empty manifest path")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return m, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &m); err != nil {
			return m, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(raw, &m); err != nil {
			return m, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(raw, &m); err != nil {
			return m, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return m, fmt.Errorf("unsupported manifest extension: %s", ext)
	}
	return m, nil
}
