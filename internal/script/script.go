// Package script parses and runs the caller's verification commands against
// a ready device.
package script

import "strings"

// Parse splits raw into the ordered command sequence. Lines are separated by
// newlines, trailing carriage returns are stripped so CRLF input behaves,
// and blank lines are dropped.
func Parse(raw string) []string {
	var commands []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		commands = append(commands, line)
	}
	return commands
}
