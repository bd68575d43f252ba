package avd

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// updateConfigFile rewrites a profile's config.ini with the given entries.
// Existing keys are overwritten in place, preserving the file's line order;
// new keys are appended sorted. A missing file is created.
//
// The format is the plain key=value dialect the emulator reads; no INI
// library in use handles it better than a line rewrite does.
func updateConfigFile(path string, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}

	var lines []string
	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("read device config: %w", err)
		}
	} else if trimmed := strings.TrimRight(string(raw), "\n"); trimmed != "" {
		lines = strings.Split(trimmed, "\n")
	}

	pending := make(map[string]string, len(entries))
	for key, value := range entries {
		pending[key] = value
	}

	for i, line := range lines {
		key := configKey(line)
		if key == "" {
			continue
		}
		if value, ok := pending[key]; ok {
			lines[i] = key + "=" + value
			delete(pending, key)
		}
	}

	appended := make([]string, 0, len(pending))
	for key, value := range pending {
		appended = append(appended, key+"="+value)
	}
	sort.Strings(appended)
	lines = append(lines, appended...)

	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write device config: %w", err)
	}
	return nil
}

// readConfigFile parses a profile's config.ini into a map.
func readConfigFile(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read device config: %w", err)
	}

	entries := map[string]string{}
	for _, line := range strings.Split(string(raw), "\n") {
		key := configKey(line)
		if key == "" {
			continue
		}
		_, value, _ := strings.Cut(line, "=")
		entries[key] = strings.TrimSpace(value)
	}
	return entries, nil
}

func configKey(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return ""
	}
	key, _, found := strings.Cut(trimmed, "=")
	if !found {
		return ""
	}
	return strings.TrimSpace(key)
}
