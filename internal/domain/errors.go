package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for input handling.
var (
	ErrMissingSeed = errors.New("missing_seed_price")
)

// ValidationError represents a malformed input record. Line is 1-based
// and zero when the error is not tied to a line.
type ValidationError struct {
	Line    int
	Message string
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}
