package android

import (
	"fmt"
	"sort"
	"strings"
)

// Arch defines the set of CPU architecture values accepted for system images.
type Arch string

const (
	X86    Arch = "x86"
	X86_64 Arch = "x86_64"
	ARM64  Arch = "arm64-v8a"
	ARMv7  Arch = "armeabi-v7a"
)

// SupportedArches returns the full list of supported architectures.
func SupportedArches() []Arch {
	return []Arch{X86, X86_64, ARM64, ARMv7}
}

// IsValid reports whether a matches a supported architecture value.
func (a Arch) IsValid() bool {
	switch a {
	case X86, X86_64, ARM64, ARMv7:
		return true
	default:
		return false
	}
}

// String returns the architecture as string.
func (a Arch) String() string {
	return string(a)
}

// ParseArch returns the canonical Arch for the provided string or a
// validation error if unsupported.
func ParseArch(value string) (Arch, error) {
	if arch := NormalizeArch(value); arch != "" {
		return arch, nil
	}
	return "", &ValidationError{
		Field:  "arch",
		Reason: fmt.Sprintf("%q is not supported (supported: %s)", value, strings.Join(archStrings(), ", ")),
	}
}

// MustParseArch is like ParseArch but panics on error.
func MustParseArch(value string) Arch {
	arch, err := ParseArch(value)
	if err != nil {
		panic(err)
	}
	return arch
}

// NormalizeArch maps a possibly ambiguous string into a canonical Arch.
// Returns "" when the string cannot be normalized.
func NormalizeArch(value string) Arch {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case string(X86_64), "x86-64", "amd64":
		return X86_64
	case string(X86), "i386", "i686", "386":
		return X86
	case string(ARM64), "arm64", "aarch64":
		return ARM64
	case string(ARMv7), "arm", "armv7", "armeabi":
		return ARMv7
	default:
		return ""
	}
}

func archStrings() []string {
	all := SupportedArches()
	out := make([]string, 0, len(all))
	for _, a := range all {
		out = append(out, a.String())
	}
	sort.Strings(out)
	return out
}
