package registrar

import "errors"

var (
	// ErrTransient marks failures that may succeed on a later attempt:
	// network errors, timeouts, rate limiting, and 5xx-class responses.
	ErrTransient = errors.New("transient registrar failure")

	// ErrConfiguration marks failures that retrying will not fix: missing or
	// rejected credentials and malformed requests.
	ErrConfiguration = errors.New("registrar configuration error")

	// ErrBatchTooLarge is returned when a caller exceeds the per-call
	// domain limit.
	ErrBatchTooLarge = errors.New("availability batch exceeds registrar limit")
)

// IsTransient reports whether err is a transient upstream failure.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}

// IsConfiguration reports whether err is a configuration-class failure.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}
