package spec

import (
	"encoding/json"
	"fmt"
	"os"
)

// Load reads, decodes, and validates a spec file. The only side effect is
// the file read; geometry work never starts on an invalid spec.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spec: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		if me, ok := err.(*MalformedSpecError); ok {
			me.Path = path
		}
		return nil, err
	}
	return s, nil
}

// Parse decodes and validates an in-memory spec document.
func Parse(data []byte) (*Spec, error) {
	var s Spec
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, &MalformedSpecError{Reason: err.Error()}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
