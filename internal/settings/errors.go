package settings

import (
	"fmt"
	"strings"
)

// MissingFieldError reports a required field that no layer defines.
type MissingFieldError struct {
	Key string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: required field is missing", e.Key)
}

// ValidationError aggregates every field-level failure found while walking
// the schema. Problems hold *coerce.Error and *MissingFieldError values.
type ValidationError struct {
	Problems []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Error()
	}
	return fmt.Sprintf("settings validation failed (%d problems): %s", len(e.Problems), strings.Join(msgs, "; "))
}

// Unwrap exposes the individual problems to errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error {
	return e.Problems
}
