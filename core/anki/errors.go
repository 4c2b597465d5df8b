package anki

import (
	"errors"
	"fmt"
)

// ErrUnreachable indicates the AnkiConnect endpoint could not be reached at
// all (connection refused, timeout, DNS failure). Callers match it with
// errors.Is to print a friendlier hint than the raw transport error.
var ErrUnreachable = errors.New("anki endpoint unreachable")

// RemoteError describes a failed AnkiConnect call. It carries the action
// name so a single failed call out of a long run can be pinpointed.
type RemoteError struct {
	// Action is the AnkiConnect action that failed (e.g. "addNote").
	Action string
	// Message is the error string returned in the response envelope, set
	// when the request itself went through but Anki rejected it.
	Message string
	// Err is the underlying transport or decoding error, if any.
	Err error
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("anki: %s: %s", e.Action, e.Message)
	}
	return fmt.Sprintf("anki: %s: %v", e.Action, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}
