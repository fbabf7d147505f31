package arches

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMatchingFile is returned when an input file pattern matches
	// nothing.
	ErrNoMatchingFile = errors.New("no file matches pattern")
)

// ErrBadSelectionCount indicates a non-sensical per-step selection count.
type ErrBadSelectionCount struct {
	Count int
}

func (e *ErrBadSelectionCount) Error() string {
	return fmt.Sprintf("invalid selection count: %d", e.Count)
}
