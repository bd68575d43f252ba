// Package avd creates and configures device profiles through avdmanager.
package avd

import (
	"fmt"
	"strconv"

	"github.com/tkoivun/aviary/android"
)

// Profile is a named, persisted description of a virtual device.
type Profile struct {
	// Name identifies the profile; it doubles as the on-disk directory name.
	Name string
	// APILevel selects the platform version of the system image.
	APILevel int
	// Target selects the system image variant.
	Target android.Target
	// Arch selects the system image CPU architecture.
	Arch android.Arch
	// Device names the hardware profile template. Empty keeps the default.
	Device string
	// Cores is the virtual CPU count. Zero keeps the image default.
	Cores int
	// RAMMegabytes sizes the device memory. Zero keeps the image default.
	RAMMegabytes int
	// Storage is the sdcard size spec, e.g. "512M". Empty skips the card.
	Storage string
	// ForceRecreate deletes any existing profile of the same name first.
	ForceRecreate bool
	// Config holds extra configuration entries written into the profile
	// before launch, such as the pre-boot runtime edits.
	Config map[string]string
}

// SystemImage returns the package path of the profile's system image.
func (p *Profile) SystemImage() string {
	return fmt.Sprintf("system-images;android-%d;%s;%s", p.APILevel, p.Target, p.Arch)
}

// Validate rejects profiles that cannot be provisioned.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return &android.ValidationError{Field: "profile name", Reason: "must not be empty"}
	}
	if err := android.ValidateAPILevel(p.APILevel); err != nil {
		return err
	}
	if !p.Target.IsValid() {
		return &android.ValidationError{Field: "target", Reason: fmt.Sprintf("%q is not supported", p.Target.String())}
	}
	if !p.Arch.IsValid() {
		return &android.ValidationError{Field: "arch", Reason: fmt.Sprintf("%q is not supported", p.Arch.String())}
	}
	if p.Cores < 0 {
		return &android.ValidationError{Field: "cores", Reason: strconv.Itoa(p.Cores) + " is negative"}
	}
	if p.RAMMegabytes < 0 {
		return &android.ValidationError{Field: "memory", Reason: strconv.Itoa(p.RAMMegabytes) + " is negative"}
	}
	return nil
}

// hardwareEntries returns the persisted configuration derived from the
// profile's hardware characteristics.
func (p *Profile) hardwareEntries() map[string]string {
	entries := map[string]string{}
	if p.Cores > 0 {
		entries["hw.cpu.ncore"] = strconv.Itoa(p.Cores)
	}
	if p.RAMMegabytes > 0 {
		entries["hw.ramSize"] = strconv.Itoa(p.RAMMegabytes)
	}
	if p.Storage != "" {
		entries["sdcard.size"] = p.Storage
	}
	if p.Device != "" {
		entries["hw.device.name"] = p.Device
	}
	return entries
}
