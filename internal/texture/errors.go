package texture

import (
	"errors"
	"fmt"
)

var (
	// ErrDimensionMismatch reports inputs whose sizes cannot be reconciled,
	// such as a zero-area texture.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrInvalidOption reports a numeric option outside its valid range.
	ErrInvalidOption = errors.New("invalid option")
)

// OptionError describes a rejected option value. It matches
// ErrInvalidOption with errors.Is.
type OptionError struct {
	Option string
	Value  any
	Reason string
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("invalid option %s=%v: %s", e.Option, e.Value, e.Reason)
}

func (e *OptionError) Unwrap() error { return ErrInvalidOption }
