package settings

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/tkoivun/aviary/internal/environment"
)

type stubBridge struct {
	commands []string
	fail     map[string]error
}

func (b *stubBridge) Shell(ctx context.Context, args ...string) (string, error) {
	command := strings.Join(args, " ")
	b.commands = append(b.commands, command)
	for fragment, err := range b.fail {
		if strings.Contains(command, fragment) {
			return "", err
		}
	}
	return "", nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestPreBootEntries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		virtualization   environment.Virtualization
		hardwareKeyboard bool
		want             map[string]string
	}{
		{
			name:           "nothing requested on a preferred host",
			virtualization: environment.VirtualizationPreferred,
			want:           map[string]string{},
		},
		{
			name:             "hardware keyboard",
			virtualization:   environment.VirtualizationPreferred,
			hardwareKeyboard: true,
			want:             map[string]string{"hw.keyboard": "yes"},
		},
		{
			name:           "degraded host forces software rendering",
			virtualization: environment.VirtualizationDegraded,
			want: map[string]string{
				"hw.gpu.enabled": "yes",
				"hw.gpu.mode":    "swiftshader_indirect",
			},
		},
		{
			name:             "degraded host with keyboard",
			virtualization:   environment.VirtualizationDegraded,
			hardwareKeyboard: true,
			want: map[string]string{
				"hw.keyboard":    "yes",
				"hw.gpu.enabled": "yes",
				"hw.gpu.mode":    "swiftshader_indirect",
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			configurator := &Configurator{
				Env:    environment.Environment{Virtualization: test.virtualization},
				Logger: testLogger(),
			}
			got := configurator.PreBootEntries(test.hardwareKeyboard)
			if !reflect.DeepEqual(got, test.want) {
				t.Errorf("PreBootEntries(%v) = %v, want %v", test.hardwareKeyboard, got, test.want)
			}
		})
	}
}

func TestApplyPostBoot(t *testing.T) {
	t.Parallel()

	bridge := &stubBridge{}
	configurator := &Configurator{Bridge: bridge, Logger: testLogger()}

	if err := configurator.ApplyPostBoot(context.Background()); err != nil {
		t.Fatalf("ApplyPostBoot() error = %v, want nil", err)
	}

	want := []string{
		"settings put global window_animation_scale 0",
		"settings put global transition_animation_scale 0",
		"settings put global animator_duration_scale 0",
		"settings put secure spell_checker_enabled 0",
	}
	if !reflect.DeepEqual(bridge.commands, want) {
		t.Errorf("bridge commands = %v, want %v", bridge.commands, want)
	}
}

func TestApplyPostBootContinuesPastFailedGroup(t *testing.T) {
	t.Parallel()

	scaleErr := errors.New("settings service not ready")
	bridge := &stubBridge{fail: map[string]error{"window_animation_scale": scaleErr}}
	configurator := &Configurator{Bridge: bridge, Logger: testLogger()}

	err := configurator.ApplyPostBoot(context.Background())

	var configErr *ConfigError
	if !errors.As(err, &configErr) {
		t.Fatalf("ApplyPostBoot() error = %v, want *ConfigError", err)
	}
	if !errors.Is(err, scaleErr) {
		t.Errorf("ApplyPostBoot() error chain does not contain %v", scaleErr)
	}

	var spellCheckerSeen bool
	for _, command := range bridge.commands {
		if strings.Contains(command, "spell_checker_enabled") {
			spellCheckerSeen = true
		}
	}
	if !spellCheckerSeen {
		t.Error("spell checker group was skipped after animation failure")
	}
}

func TestApplyPostBootJoinsAllFailures(t *testing.T) {
	t.Parallel()

	scaleErr := errors.New("scale rejected")
	spellErr := errors.New("spell rejected")
	bridge := &stubBridge{fail: map[string]error{
		"animator_duration_scale": scaleErr,
		"spell_checker_enabled":   spellErr,
	}}
	configurator := &Configurator{Bridge: bridge, Logger: testLogger()}

	err := configurator.ApplyPostBoot(context.Background())
	if !errors.Is(err, scaleErr) || !errors.Is(err, spellErr) {
		t.Fatalf("ApplyPostBoot() error = %v, want both group failures joined", err)
	}
}
