package dao

import "errors"

var (
	ErrConstraintViolation = errors.New("a uniqueness constraint was violated")
	ErrNotFound            = errors.New("the requested resource was not found")

	// ErrDecodingFailed is returned when a stored column cannot be turned back
	// into its Go value, such as a result token whose encoding is corrupt.
	ErrDecodingFailed = errors.New("a stored value could not be decoded")

	// ErrNotAResult is returned when an evaluation is created with a result
	// token that holds no value.
	ErrNotAResult = errors.New("evaluation result is not a value")
)
