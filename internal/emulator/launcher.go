package emulator

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"syscall"

	"github.com/tkoivun/aviary/internal/toolchain"
)

// Launcher spawns the emulator binary detached from any command context.
// Teardown is the Terminator's job, never a side effect of cancellation, so
// the child must survive the caller's context going away.
type Launcher struct {
	Toolchain toolchain.Toolchain
	LogDir    string
	Logger    *slog.Logger
}

func (l *Launcher) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}

func launchArgv(spec LaunchSpec) []string {
	argv := []string{"-avd", spec.AVDName, "-port", strconv.Itoa(spec.Port)}
	return append(argv, spec.Args...)
}

// Launch starts the emulator and begins capturing its combined output to
// <LogDir>/<avd>-<pid>.log. The returned handle reports liveness and exit
// status without ever blocking on the child.
func (l *Launcher) Launch(spec LaunchSpec) (Process, error) {
	if err := os.MkdirAll(l.LogDir, 0o755); err != nil {
		return nil, &LaunchError{Message: fmt.Sprintf("create log directory %s: %v", l.LogDir, err)}
	}

	binary := l.Toolchain.Emulator()
	cmd := exec.Command(binary, launchArgv(spec)...)
	// Own process group so a later force kill takes helper processes down too.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Env = l.childEnv()

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &LaunchError{Message: fmt.Sprintf("attach stdout: %v", err)}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, &LaunchError{Message: fmt.Sprintf("attach stderr: %v", err)}
	}

	if err := cmd.Start(); err != nil {
		return nil, &LaunchError{Message: fmt.Sprintf("start %s: %v", binary, err)}
	}

	logPath := filepath.Join(l.LogDir, fmt.Sprintf("%s-%d.log", spec.AVDName, cmd.Process.Pid))
	logFile, err := os.Create(logPath)
	if err != nil {
		_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		go func() { _ = cmd.Wait() }()
		return nil, &LaunchError{Message: fmt.Sprintf("create log file %s: %v", logPath, err)}
	}

	proc := &emulatorProcess{
		serial:  spec.Serial(),
		pid:     cmd.Process.Pid,
		logPath: logPath,
		logFile: logFile,
		done:    make(chan struct{}),
	}

	var copies sync.WaitGroup
	copies.Add(2)
	go func() {
		defer copies.Done()
		_, _ = io.Copy(logFile, stdout)
	}()
	go func() {
		defer copies.Done()
		_, _ = io.Copy(logFile, stderr)
	}()
	go func() {
		copies.Wait()
		proc.setExitErr(cmd.Wait())
		close(proc.done)
	}()

	l.logger().Info("emulator launched",
		"avd", spec.AVDName, "serial", proc.Serial(), "pid", proc.PID(), "log", logPath)
	return proc, nil
}

func (l *Launcher) childEnv() []string {
	env := os.Environ()
	if l.Toolchain.SDKRoot != "" {
		env = append(env, "ANDROID_SDK_ROOT="+l.Toolchain.SDKRoot)
	}
	if l.Toolchain.AVDHome != "" {
		env = append(env, "ANDROID_AVD_HOME="+l.Toolchain.AVDHome)
	}
	return env
}
