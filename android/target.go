package android

import (
	"fmt"
	"sort"
	"strings"
)

// Target defines the system image variants a device profile can be based on.
type Target string

const (
	TargetDefault    Target = "default"
	TargetGoogleAPIs Target = "google_apis"
	TargetPlaystore  Target = "google_apis_playstore"
	TargetAndroidTV  Target = "android-tv"
	TargetWear       Target = "android-wear"
)

// SupportedTargets returns the full list of supported target variants.
func SupportedTargets() []Target {
	return []Target{TargetDefault, TargetGoogleAPIs, TargetPlaystore, TargetAndroidTV, TargetWear}
}

// IsValid reports whether t matches a supported target value.
func (t Target) IsValid() bool {
	switch t {
	case TargetDefault, TargetGoogleAPIs, TargetPlaystore, TargetAndroidTV, TargetWear:
		return true
	default:
		return false
	}
}

// String returns the target as string.
func (t Target) String() string {
	return string(t)
}

// ParseTarget returns the canonical Target for the provided string or a
// validation error if unsupported.
func ParseTarget(value string) (Target, error) {
	normalized := Target(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "playstore" {
		normalized = TargetPlaystore
	}
	if normalized.IsValid() {
		return normalized, nil
	}
	return "", &ValidationError{
		Field:  "target",
		Reason: fmt.Sprintf("%q is not supported (supported: %s)", value, strings.Join(targetStrings(), ", ")),
	}
}

func targetStrings() []string {
	all := SupportedTargets()
	out := make([]string, 0, len(all))
	for _, t := range all {
		out = append(out, t.String())
	}
	sort.Strings(out)
	return out
}
