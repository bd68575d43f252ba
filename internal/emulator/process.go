package emulator

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// Process is the opaque handle to a launched backing process. It is created
// by the Launcher and destroyed by the Terminator; the boot monitor only
// observes it. At most one exists per lifecycle run.
type Process interface {
	// Serial is the bridge serial the device registers under.
	Serial() string
	// PID identifies the backing process.
	PID() int
	// LogPath is the file capturing the process output.
	LogPath() string
	// Running reports whether the process is still alive.
	Running() bool
	// ExitErr returns the recorded exit error once the process has exited.
	ExitErr() error
	// Kill force-terminates the whole process group.
	Kill() error
	// Release closes the captured log sink. Safe to call repeatedly.
	Release()
}

type emulatorProcess struct {
	serial  string
	pid     int
	logPath string
	logFile *os.File

	done    chan struct{}
	release sync.Once

	mu      sync.Mutex
	exitErr error
}

func (p *emulatorProcess) Serial() string {
	return p.serial
}

func (p *emulatorProcess) PID() int {
	return p.pid
}

func (p *emulatorProcess) LogPath() string {
	return p.logPath
}

func (p *emulatorProcess) Running() bool {
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

func (p *emulatorProcess) ExitErr() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exitErr
}

func (p *emulatorProcess) setExitErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.exitErr = err
}

// Kill signals the whole process group so helper processes spawned by the
// emulator die with it. A group that is already gone is not an error.
func (p *emulatorProcess) Kill() error {
	if err := unix.Kill(-p.pid, unix.SIGKILL); err != nil && !errors.Is(err, unix.ESRCH) {
		return fmt.Errorf("kill process group %d: %w", p.pid, err)
	}
	return nil
}

func (p *emulatorProcess) Release() {
	p.release.Do(func() {
		if p.logFile != nil {
			_ = p.logFile.Close()
		}
	})
}
