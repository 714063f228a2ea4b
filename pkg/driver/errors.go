package driver

import "errors"

var (
	// ErrInvalidConfig indicates a driver was constructed with missing or
	// malformed vendor options.
	ErrInvalidConfig = errors.New("driver: invalid configuration")

	// ErrEncodePayload indicates a vendor payload could not be serialized.
	ErrEncodePayload = errors.New("driver: failed to encode payload")
)
