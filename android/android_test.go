package android

import (
	"errors"
	"testing"
)

func TestParseArch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Arch
		wantErr bool
	}{
		{in: "x86_64", want: X86_64},
		{in: "amd64", want: X86_64},
		{in: "X86-64", want: X86_64},
		{in: "x86", want: X86},
		{in: "i686", want: X86},
		{in: "arm64-v8a", want: ARM64},
		{in: "aarch64", want: ARM64},
		{in: " arm64 ", want: ARM64},
		{in: "armeabi-v7a", want: ARMv7},
		{in: "armv7", want: ARMv7},
		{in: "riscv", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseArch(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseArch(%q) error = nil, want error", tt.in)
			}
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("ParseArch(%q) error type = %T, want *ValidationError", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseArch(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseArch(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseTarget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Target
		wantErr bool
	}{
		{in: "default", want: TargetDefault},
		{in: "google_apis", want: TargetGoogleAPIs},
		{in: "google_apis_playstore", want: TargetPlaystore},
		{in: "playstore", want: TargetPlaystore},
		{in: "android-tv", want: TargetAndroidTV},
		{in: "android-wear", want: TargetWear},
		{in: "vendor_apis", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseTarget(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseTarget(%q) error = nil, want error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseTarget(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseTarget(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestChannelOrdinalTotalOrder(t *testing.T) {
	t.Parallel()

	channels := SupportedChannels()
	for i := 1; i < len(channels); i++ {
		prev, cur := channels[i-1], channels[i]
		if prev.Ordinal() >= cur.Ordinal() {
			t.Fatalf("Ordinal(%s) = %d not below Ordinal(%s) = %d", prev, prev.Ordinal(), cur, cur.Ordinal())
		}
	}

	if ChannelStable.Ordinal() != 0 {
		t.Fatalf("Ordinal(stable) = %d, want 0", ChannelStable.Ordinal())
	}
	if Channel("nightly").Ordinal() != -1 {
		t.Fatalf("Ordinal(nightly) = %d, want -1", Channel("nightly").Ordinal())
	}
}

func TestParseChannel(t *testing.T) {
	t.Parallel()

	if got, err := ParseChannel("Canary"); err != nil || got != ChannelCanary {
		t.Fatalf("ParseChannel(\"Canary\") = %q, %v, want %q, nil", got, err, ChannelCanary)
	}
	if _, err := ParseChannel("nightly"); err == nil {
		t.Fatalf("ParseChannel(\"nightly\") error = nil, want error")
	}
}

func TestValidateAPILevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level   int
		wantErr bool
	}{
		{level: MinAPILevel - 1, wantErr: true},
		{level: MinAPILevel},
		{level: 29},
		{level: MaxAPILevel},
		{level: MaxAPILevel + 1, wantErr: true},
		{level: 0, wantErr: true},
		{level: -3, wantErr: true},
	}

	for _, tt := range tests {
		err := ValidateAPILevel(tt.level)
		if tt.wantErr && err == nil {
			t.Fatalf("ValidateAPILevel(%d) error = nil, want error", tt.level)
		}
		if !tt.wantErr && err != nil {
			t.Fatalf("ValidateAPILevel(%d) error = %v", tt.level, err)
		}
	}
}

func TestParseAPILevel(t *testing.T) {
	t.Parallel()

	if got, err := ParseAPILevel("29"); err != nil || got != 29 {
		t.Fatalf("ParseAPILevel(\"29\") = %d, %v, want 29, nil", got, err)
	}
	if _, err := ParseAPILevel("current"); err == nil {
		t.Fatalf("ParseAPILevel(\"current\") error = nil, want error")
	}
	if _, err := ParseAPILevel("9000"); err == nil {
		t.Fatalf("ParseAPILevel(\"9000\") error = nil, want error")
	}
}

func TestParseBoolString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{in: "true", want: true},
		{in: "false", want: false},
		{in: "True", wantErr: true},
		{in: "1", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseBoolString("hardware keyboard", tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseBoolString(%q) error = nil, want error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseBoolString(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseBoolString(%q) = %t, want %t", tt.in, got, tt.want)
		}
	}
}
