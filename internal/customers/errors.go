package customers

import "errors"

var (
	// ErrNotFound indicates no customer matches the lookup.
	ErrNotFound = errors.New("customer not found")

	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnavailable indicates the backing store did not answer in time.
	ErrUnavailable = errors.New("customer store unavailable")
)
