package backend

import "errors"

var (
	// ErrNotFound is returned when the backend reports a missing record
	ErrNotFound = errors.New("hotel backend: not found")

	// ErrInternal is returned for failures on our side of the call
	ErrInternal = errors.New("hotel backend client: internal error")

	// ErrInvalidResponse is returned for unexpected statuses or undecodable bodies
	ErrInvalidResponse = errors.New("hotel backend client: invalid response")

	// ErrRejected is returned when the backend refuses a payload (4xx other than 404)
	ErrRejected = errors.New("hotel backend: request rejected")
)
