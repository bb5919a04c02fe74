package pure

import "fmt"

// ErrInvalidIndex is returned when an index is negative or not an integer.
var ErrInvalidIndex = fmt.Errorf("invalid index")

// ErrRecurrence is returned when a recurrence is not well founded: it reached
// below the seeded base cases, looked up an index that is not strictly smaller
// than the one being computed, or failed on its own.
var ErrRecurrence = fmt.Errorf("recurrence error")

func invalidIndex(x any) error {
	return fmt.Errorf("%w: %v", ErrInvalidIndex, x)
}

func recurrenceErr(n int, format string, args ...any) error {
	return fmt.Errorf("%w: index %d: %s", ErrRecurrence, n, fmt.Sprintf(format, args...))
}

// ErrTable wraps failures reported by a Table implementation.
var ErrTable = fmt.Errorf("table error")

func tableErr(n int, err error) error {
	return fmt.Errorf("%w: index %d: %w", ErrTable, n, err)
}
