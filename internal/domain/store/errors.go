// Package store holds the transport-level failure shared by every repository.
package store

import (
	"errors"
	"fmt"
)

var ErrUnavailable = errors.New("store unavailable")

// UnavailableError wraps a driver failure that is not a plain "not found".
// Callers may retry; nothing in the domain does.
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("store unavailable: %s: %v", e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

func (e *UnavailableError) Is(target error) bool { return target == ErrUnavailable }

func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	return &UnavailableError{Op: op, Err: err}
}
