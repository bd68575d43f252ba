package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%q) failed: %v", path, err)
	}
	return path
}

func TestLoadByExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "run.yaml",
			content: `
name: nightly
api_level: 29
arch: x86_64
force_recreate: true
boot_budget: 15m
`,
		},
		{
			name: "json",
			file: "run.json",
			content: `{
  "name": "nightly",
  "api_level": 29,
  "arch": "x86_64",
  "force_recreate": true,
  "boot_budget": "15m"
}`,
		},
		{
			name: "toml",
			file: "run.toml",
			content: `
name = "nightly"
api_level = 29
arch = "x86_64"
force_recreate = true
boot_budget = "15m"
`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			path := writeManifest(t, test.file, test.content)
			m, err := Load(path)
			if err != nil {
				t.Fatalf("Load(%q) error = %v, want nil", path, err)
			}
			if m.Name != "nightly" {
				t.Errorf("m.Name = %q, want %q", m.Name, "nightly")
			}
			if m.APILevel != 29 {
				t.Errorf("m.APILevel = %d, want 29", m.APILevel)
			}
			if m.Arch != "x86_64" {
				t.Errorf("m.Arch = %q, want %q", m.Arch, "x86_64")
			}
			if !m.ForceRecreate {
				t.Error("m.ForceRecreate = false, want true")
			}
			if m.BootBudget != "15m" {
				t.Errorf("m.BootBudget = %q, want %q", m.BootBudget, "15m")
			}
		})
	}
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	t.Parallel()

	path := writeManifest(t, "run.ini", "name=nightly\n")
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "unsupported manifest extension") {
		t.Fatalf("Load() error = %v, want unsupported extension", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Load() error = nil, want read failure")
	}
}

func TestLoadEmptyPath(t *testing.T) {
	t.Parallel()

	if _, err := Load(""); err == nil {
		t.Fatal("Load(\"\") error = nil, want error")
	}
}
