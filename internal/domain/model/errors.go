package model

import (
	"errors"
	"fmt"
)

// Sentinel kinds for model validation errors. These allow errors.Is from callers.
var (
	// ErrMalformedStatLine marks a stat line with missing or negative
	// required fields. Evaluation for that line must abort rather than
	// treat the field as zero.
	ErrMalformedStatLine = errors.New("malformed stat line")
)

func malformed(field, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrMalformedStatLine, field, reason)
}
