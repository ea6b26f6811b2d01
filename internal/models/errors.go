package models

import "errors"

var (
	ErrFetch             = errors.New("neo feed unavailable")
	ErrMissingField      = errors.New("missing field")
	ErrEmptyTable        = errors.New("table has no rows")
	ErrZeroVelocity      = errors.New("relative velocity is zero")
	ErrInvalidComparison = errors.New("invalid comparison operator")
)
