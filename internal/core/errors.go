package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by every NotFoundError.
	ErrNotFound = errors.New("not found")
	// ErrMissingColumns is wrapped by a LoadError when the dataset header lacks required columns.
	ErrMissingColumns = errors.New("missing required columns")
)

// LoadError reports a dataset that could not be read. It is fatal at startup.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load dataset from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Lookup kinds used by NotFoundError.
const (
	KindStartup  = "startup"
	KindInvestor = "investor"
)

// NotFoundError reports a startup or investor name with zero matching records.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// Is makes errors.Is(err, ErrNotFound) hold for any NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
