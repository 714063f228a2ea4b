package transport

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrRequestFailed indicates the request could not be completed or the
	// vendor answered with a non-2xx status.
	ErrRequestFailed = errors.New("transport: request failed")

	// ErrEncodeBody indicates the request body could not be marshaled.
	ErrEncodeBody = errors.New("transport: failed to encode body")
)

// Error describes a failed exchange with a vendor API.
// Status is zero when no response was received.
type Error struct {
	Err    error
	Header http.Header
	Data   []byte
	Status int
}

func (e *Error) Error() string {
	if e.Status == 0 {
		if e.Err == nil {
			return "transport: request failed without a response"
		}
		return fmt.Sprintf("transport: request failed: %v", e.Err)
	}
	if len(e.Data) > 0 {
		return fmt.Sprintf("transport: request failed with status %d: %s", e.Status, truncate(string(e.Data), maxErrorBody))
	}
	return fmt.Sprintf("transport: request failed with status %d", e.Status)
}

// Is makes errors.Is(err, ErrRequestFailed) succeed.
func (e *Error) Is(target error) bool {
	return target == ErrRequestFailed
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HasResponse reports whether the vendor answered at all.
func (e *Error) HasResponse() bool {
	return e.Status != 0
}

const maxErrorBody = 1024

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
