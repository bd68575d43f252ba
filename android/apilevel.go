package android

import (
	"fmt"
	"strconv"
)

// Supported API level range. Images older than 15 predate the tooling this
// runner drives; levels beyond the current maximum do not exist yet.
const (
	MinAPILevel = 15
	MaxAPILevel = 36
)

// ValidateAPILevel rejects API levels outside the supported range.
func ValidateAPILevel(level int) error {
	if level < MinAPILevel || level > MaxAPILevel {
		return &ValidationError{
			Field:  "api level",
			Reason: fmt.Sprintf("%d is outside the supported range [%d, %d]", level, MinAPILevel, MaxAPILevel),
		}
	}
	return nil
}

// ParseAPILevel parses and validates an API level given as string.
func ParseAPILevel(value string) (int, error) {
	level, err := strconv.Atoi(value)
	if err != nil {
		return 0, &ValidationError{Field: "api level", Reason: fmt.Sprintf("%q is not a number", value)}
	}
	if err := ValidateAPILevel(level); err != nil {
		return 0, err
	}
	return level, nil
}
