// Package android defines the SDK vocabulary shared across the tool:
// system image architectures, target variants, release channels and the
// supported API level range, together with the validation helpers that
// reject malformed configuration before any side-effecting component runs.
package android

import "fmt"

// ValidationError reports a configuration field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ParseBoolString parses the boolean-valued configuration fields, which
// accept exactly "true" or "false".
func ParseBoolString(field, value string) (bool, error) {
	switch value {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, &ValidationError{Field: field, Reason: fmt.Sprintf("%q is not \"true\" or \"false\"", value)}
	}
}
