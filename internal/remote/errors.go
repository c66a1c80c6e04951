package remote

import (
	"errors"
	"fmt"
)

// ErrUnavailable marks a transport failure or a non-success status from the
// record store. The caller's cached data stays valid; the action can simply
// be retried by the user.
var ErrUnavailable = errors.New("record store unavailable")

// MalformedError marks a response whose body does not have the expected
// shape. It is distinct from ErrUnavailable so callers can tell "the store
// returned nothing" apart from "the store returned something we couldn't
// parse" instead of rendering an empty collection.
type MalformedError struct {
	Resource string
	Err      error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed %s response: %v", e.Resource, e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }

func unavailable(method, path string, err error) error {
	return fmt.Errorf("%s %s: %w: %v", method, path, ErrUnavailable, err)
}
