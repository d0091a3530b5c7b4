package steeltypes

import "errors"

var (
	// ErrNotFound indicates no steel type has the requested code or ID.
	ErrNotFound = errors.New("steel type not found")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict indicates the code is already registered.
	ErrConflict = errors.New("steel code already exists")
)
