// Package storage holds the error vocabulary shared by every store implementation.
package storage

import (
	"errors"
	"fmt"
)

// ErrUnavailable marks a failure of the underlying store (connection refused, query failed,
// transaction aborted). Callers match it with errors.Is and never retry on their own.
var ErrUnavailable = errors.New("storage unavailable")

// Unavailable wraps err so that it matches both ErrUnavailable and the original cause.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}
