// Package environment describes the host capabilities the lifecycle depends
// on. Components never inspect the host themselves; they receive an
// Environment value from the composition root so every capability level can
// be exercised in tests.
package environment

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Virtualization classifies how well the host accelerates the device.
type Virtualization string

const (
	// VirtualizationPreferred means the platform hypervisor is available.
	VirtualizationPreferred Virtualization = "preferred"
	// VirtualizationDegraded means the device can run, but only with
	// software fallbacks.
	VirtualizationDegraded Virtualization = "degraded"
	// VirtualizationUnsupported means the host cannot run the device at all.
	VirtualizationUnsupported Virtualization = "unsupported"
)

// IsValid reports whether v matches a known virtualization level.
func (v Virtualization) IsValid() bool {
	switch v {
	case VirtualizationPreferred, VirtualizationDegraded, VirtualizationUnsupported:
		return true
	default:
		return false
	}
}

// String returns the virtualization level as string.
func (v Virtualization) String() string {
	return string(v)
}

// ParseVirtualization returns the canonical Virtualization for the provided
// string, or an error if unknown.
func ParseVirtualization(value string) (Virtualization, error) {
	normalized := Virtualization(strings.ToLower(strings.TrimSpace(value)))
	if normalized.IsValid() {
		return normalized, nil
	}
	return "", fmt.Errorf("unknown virtualization level %q (supported: preferred, degraded, unsupported)", value)
}

// Environment carries the injected host capabilities.
type Environment struct {
	Virtualization Virtualization
}

// Detect inspects the host once and classifies its virtualization support.
// Call it in the composition root only.
func Detect() Environment {
	return Environment{Virtualization: detectVirtualization()}
}

func detectVirtualization() Virtualization {
	switch runtime.GOOS {
	case "linux":
		if _, err := os.Stat("/dev/kvm"); err == nil {
			return VirtualizationPreferred
		}
		return VirtualizationDegraded
	case "darwin":
		return VirtualizationPreferred
	case "windows":
		return VirtualizationDegraded
	default:
		return VirtualizationUnsupported
	}
}
