package feedback

import "errors"

var (
	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRecommendationNotFound indicates the referenced recommendation does not exist.
	ErrRecommendationNotFound = errors.New("recommendation not found")
)
