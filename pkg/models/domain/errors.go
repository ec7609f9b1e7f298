package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidSelection is returned when a control event references a value
// outside its declared enumeration.
var ErrInvalidSelection = errors.New("invalid selection")

type SelectionError struct {
	Field  string
	Value  string
	Reason string
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("invalid selection for %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *SelectionError) Unwrap() error {
	return ErrInvalidSelection
}
