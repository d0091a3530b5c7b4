package recommendations

import "errors"

var (
	// ErrValidation indicates the request was rejected before any scoring happened.
	ErrValidation = errors.New("validation error")

	// ErrRepository indicates the candidate catalog could not be read. No partial result is returned.
	ErrRepository = errors.New("repository error")

	// ErrPersistence indicates a save failed. No record was created.
	ErrPersistence = errors.New("persistence error")

	// ErrNotFound indicates the persisted recommendation does not exist.
	ErrNotFound = errors.New("recommendation not found")
)
