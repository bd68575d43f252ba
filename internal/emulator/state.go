package emulator

// BootState tracks the boot progress of the backing process. Transitions are
// strictly forward; TimedOut and Crashed are terminal failure states.
type BootState string

const (
	BootStateNotStarted           BootState = "not_started"
	BootStateAwaitingDevice       BootState = "awaiting_device"
	BootStateAwaitingBootComplete BootState = "awaiting_boot_complete"
	BootStateReady                BootState = "ready"
	BootStateTimedOut             BootState = "timed_out"
	BootStateCrashed              BootState = "crashed"
)

// String returns the state as string.
func (s BootState) String() string {
	return string(s)
}
