/*
errors.go - Centralized error types for the timeline engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Domain packages wrap these errors with additional context.

ERROR CATEGORIES:
  1. Construction errors - an item's derived range has From > To (Timeline.Add)
  2. Window errors - a view was requested for a window with start > end
  3. Lookup errors - a referenced record does not exist (stores)

  There is no partial-failure category: once inputs are valid, building a
  view always succeeds. Both engine errors are caller bugs and must be
  surfaced, never logged-and-skipped.

USAGE:
    if errors.Is(err, generic.ErrInvalidWindow) {
        // 400 Bad Request
    }

SEE ALSO:
  - daterange.go: Returns InvalidRangeError
  - timeline.go: Returns InvalidRangeError and InvalidWindowError
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidRange is returned when a range ends before it starts.
	ErrInvalidRange = errors.New("invalid range: from after to")

	// ErrInvalidWindow is returned when a view is requested for a window
	// whose start is after its end.
	ErrInvalidWindow = errors.New("invalid window: start after end")

	// ErrNotFound is returned when a referenced record doesn't exist.
	ErrNotFound = errors.New("not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidRangeError carries the offending boundaries.
type InvalidRangeError struct {
	From Date
	To   Date
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: from %s is after to %s", e.From, e.To)
}

func (e *InvalidRangeError) Unwrap() error {
	return ErrInvalidRange
}

// InvalidWindowError carries the rejected window.
type InvalidWindowError struct {
	Start Date
	End   Date
}

func (e *InvalidWindowError) Error() string {
	return fmt.Sprintf("invalid window: start %s is after end %s", e.Start, e.End)
}

func (e *InvalidWindowError) Unwrap() error {
	return ErrInvalidWindow
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrInvalidWindow)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
