package artifact

import "fmt"

var (
	// ErrNotFound is returned when no document exists for the given
	// reference in the underlying store.
	ErrNotFound = fmt.Errorf("artifact not found")
)
