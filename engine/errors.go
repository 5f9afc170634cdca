package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the project or a referenced equipment id does not
	// resolve. Not retryable.
	ErrNotFound = errors.New("not found")

	// ErrMissingInterval means the project lacks usage_start or usage_end;
	// it cannot be evaluated until both are set.
	ErrMissingInterval = errors.New("usage_start and usage_end are required")

	// ErrInvalidInterval means usage_start is not strictly before usage_end.
	ErrInvalidInterval = errors.New("usage_start must be before usage_end")

	// ErrAlreadyTerminal means confirm was attempted on a cancelled project.
	ErrAlreadyTerminal = errors.New("project is cancelled")

	// ErrItemsFrozen means a requirement edit was attempted on a project
	// that already left draft.
	ErrItemsFrozen = errors.New("project is no longer draft")

	// ErrBusy means a row lock could not be acquired within the store's
	// lock-wait bound. The whole unit of work rolled back; the caller may
	// retry with backoff.
	ErrBusy = errors.New("store busy, retry later")
)

// ShortageError reports a failed feasibility check. It carries the full
// list of short equipment, not just the first failure.
type ShortageError struct {
	Shortages []Availability
}

func (e *ShortageError) Error() string {
	return fmt.Sprintf("stock shortage on %d equipment item(s)", len(e.Shortages))
}
