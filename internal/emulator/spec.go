package emulator

import (
	"fmt"
	"strings"

	"github.com/tkoivun/aviary/internal/environment"
)

// Console port range the backing process accepts. Ports are allocated in
// pairs, so only even ports are valid.
const (
	DefaultPort = 5554
	minPort     = 5554
	maxPort     = 5682
)

// SerialForPort returns the bridge serial of a device on the given port.
func SerialForPort(port int) string {
	return fmt.Sprintf("emulator-%d", port)
}

// LaunchSpec is the resolved launch configuration of the backing process.
// It is immutable once built.
type LaunchSpec struct {
	// AVDName selects the device profile to boot.
	AVDName string
	// Port is the console port; the bridge serial derives from it.
	Port int
	// Args holds the resolved option list, without the profile and port
	// context the launcher adds itself.
	Args []string
}

// Serial returns the bridge serial the launched device will register under.
func (s LaunchSpec) Serial() string {
	return SerialForPort(s.Port)
}

// BuildLaunchSpec resolves the launch options for a profile. A non-empty
// override is split into fields and used verbatim, replacing the computed
// defaults entirely. With no override, the defaults describe a headless,
// software-rendered, silent boot suited to pipeline hosts, degraded further
// when the host cannot accelerate.
func BuildLaunchSpec(avdName string, env environment.Environment, override string, port int) (LaunchSpec, error) {
	if avdName == "" {
		return LaunchSpec{}, &LaunchError{Message: "device profile name is required"}
	}
	if env.Virtualization == environment.VirtualizationUnsupported {
		return LaunchSpec{}, &LaunchError{Message: "host does not support device virtualization"}
	}
	if port == 0 {
		port = DefaultPort
	}
	if port < minPort || port > maxPort || port%2 != 0 {
		return LaunchSpec{}, &LaunchError{
			Message: fmt.Sprintf("console port %d is outside the even range [%d, %d]", port, minPort, maxPort),
		}
	}

	args := strings.Fields(override)
	if len(args) == 0 {
		args = defaultArgs(env)
	}

	return LaunchSpec{AVDName: avdName, Port: port, Args: args}, nil
}

func defaultArgs(env environment.Environment) []string {
	args := []string{
		"-no-window",
		"-gpu", "swiftshader_indirect",
		"-no-snapshot",
		"-noaudio",
		"-no-boot-anim",
		"-camera-back", "none",
		"-camera-front", "none",
	}
	if env.Virtualization == environment.VirtualizationDegraded {
		args = append(args, "-accel", "off")
	}
	return args
}
