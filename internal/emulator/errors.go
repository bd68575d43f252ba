package emulator

// LaunchError reports that the backing process could not be spawned.
type LaunchError struct {
	Message string
}

func (e *LaunchError) Error() string {
	return e.Message
}

// BootCause distinguishes why a boot did not reach the ready state.
type BootCause string

const (
	// BootCauseTimedOut means the budget elapsed before boot completion.
	BootCauseTimedOut BootCause = "timed_out"
	// BootCauseCrashed means the backing process exited mid-boot.
	BootCauseCrashed BootCause = "crashed"
)

// BootError reports that the device never became ready.
type BootError struct {
	Cause   BootCause
	Message string
}

func (e *BootError) Error() string {
	return e.Message
}
