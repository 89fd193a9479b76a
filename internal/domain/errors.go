package domain

import "errors"

var (
	// ErrTransport is returned for any failure talking to the remote drink
	// service (timeouts, non-2xx statuses, undecodable bodies)
	ErrTransport = errors.New("drink service request failed")

	// ErrNotFound is returned when a recipe or search session cannot be found
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned when a caller-side precondition fails before
	// anything is sent to the remote service
	ErrValidation = errors.New("validation failed")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
