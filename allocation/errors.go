// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package allocation

import "fmt"

// ValidationError reports malformed or out-of-range input.
// Field uses the JSON field names of Input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DivisionError is returned by the quota stage for a non-positive seat count
type DivisionError struct {
	Seats int
}

func (e *DivisionError) Error() string {
	return fmt.Sprintf("cannot derive votes per seat from %d seats", e.Seats)
}
