package domain

import "errors"

var (
	// ErrInvalidQuery signals a query spec that cannot be bound to a backend.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrUnknownDriver signals a backend driver name with no implementation.
	ErrUnknownDriver = errors.New("unknown driver")
)
