package spec

import "fmt"

// MalformedSpecError reports a structurally invalid spec document:
// unreadable JSON, missing required keys, or a recipe that references
// things the evaluator cannot interpret.
type MalformedSpecError struct {
	Path   string // file path, empty for in-memory specs
	Reason string
}

func (e *MalformedSpecError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("malformed spec: %s", e.Reason)
	}
	return fmt.Sprintf("malformed spec %s: %s", e.Path, e.Reason)
}

// InvalidDimensionError reports a numeric parameter that is out of range
// or a dangling color/component reference.
type InvalidDimensionError struct {
	Subject string // parameter name, component id, or color id
	Reason  string
}

func (e *InvalidDimensionError) Error() string {
	return fmt.Sprintf("invalid dimension %q: %s", e.Subject, e.Reason)
}
