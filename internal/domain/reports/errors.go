package reports

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when no report has the requested id.
var ErrNotFound = errors.New("report not found")

// PersistenceError wraps a store failure with the operation that hit it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
