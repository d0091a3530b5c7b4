package workinstructions

import "errors"

var (
	// ErrNotFound indicates the work instruction does not exist.
	ErrNotFound = errors.New("work instruction not found")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict indicates another work instruction already uses the IT code.
	ErrConflict = errors.New("it code already exists")
)
