package android

import (
	"fmt"
	"strings"
)

// Channel is a release maturity tier used to select which package versions
// are eligible for installation.
type Channel string

const (
	ChannelStable Channel = "stable"
	ChannelBeta   Channel = "beta"
	ChannelDev    Channel = "dev"
	ChannelCanary Channel = "canary"
)

// SupportedChannels returns the channels ordered by increasing maturity risk.
func SupportedChannels() []Channel {
	return []Channel{ChannelStable, ChannelBeta, ChannelDev, ChannelCanary}
}

// IsValid reports whether c matches a supported channel value.
func (c Channel) IsValid() bool {
	switch c {
	case ChannelStable, ChannelBeta, ChannelDev, ChannelCanary:
		return true
	default:
		return false
	}
}

// String returns the channel as string.
func (c Channel) String() string {
	return string(c)
}

// Ordinal maps the channel onto the numeric identifier the package manager
// expects. The mapping is a strict total order: stable < beta < dev < canary.
func (c Channel) Ordinal() int {
	switch c {
	case ChannelStable:
		return 0
	case ChannelBeta:
		return 1
	case ChannelDev:
		return 2
	case ChannelCanary:
		return 3
	default:
		return -1
	}
}

// ParseChannel returns the canonical Channel for the provided string or a
// validation error if unsupported.
func ParseChannel(value string) (Channel, error) {
	normalized := Channel(strings.ToLower(strings.TrimSpace(value)))
	if normalized.IsValid() {
		return normalized, nil
	}
	return "", &ValidationError{
		Field:  "channel",
		Reason: fmt.Sprintf("%q is not supported (supported: %s)", value, joinChannels()),
	}
}

func joinChannels() string {
	all := SupportedChannels()
	out := make([]string, 0, len(all))
	for _, c := range all {
		out = append(out, c.String())
	}
	return strings.Join(out, ", ")
}
