package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRelaysAvailable is returned when every configured relay failed to connect
	ErrNoRelaysAvailable = errors.New("no relays available")

	// ErrNotConnected is returned when a publish is attempted before any relay connected
	ErrNotConnected = errors.New("not connected to any relay")

	// ErrTimeout is returned when no matching response arrived before the deadline
	ErrTimeout = errors.New("request timed out")

	// ErrCancelled is returned to in-flight requests when the client shuts down
	ErrCancelled = errors.New("request cancelled")

	// ErrMalformedResponse is returned when a response payload is not a valid envelope
	ErrMalformedResponse = errors.New("malformed response")

	// ErrEmptyResult is returned when an ok response carries no result
	ErrEmptyResult = errors.New("empty result")

	// ErrUnexpectedStatus is returned when a response status is neither ok nor error
	ErrUnexpectedStatus = errors.New("unexpected response status")

	// ErrInvalidPairingPayload is returned when a pairing payload fails validation
	ErrInvalidPairingPayload = errors.New("invalid pairing payload")

	// ErrNotPaired is returned when an operation requires an active pairing
	ErrNotPaired = errors.New("no active pairing")
)

// ServerError reports a response that explicitly carried status "error". The
// message is the server-supplied text, shown to the user as-is.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error: %s", e.Message)
}
