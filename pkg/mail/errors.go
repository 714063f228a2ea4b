package mail

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation error")

	// ErrProcessing matches every *ProcessingError.
	ErrProcessing = errors.New("processing error")
)

// ValidationError reports a malformed canonical request.
// The request never reaches the vendor.
type ValidationError struct {
	Driver string
	Detail string
}

// NewValidationError creates a validation error for the named driver.
func NewValidationError(driver, detail string) *ValidationError {
	return &ValidationError{Driver: driver, Detail: detail}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[driver %s] Validation Error: %s", e.Driver, e.Detail)
}

// Is makes errors.Is(err, ErrValidation) succeed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ProcessingError reports a valid request the selected vendor cannot fulfil,
// such as a template send on a vendor without template support.
type ProcessingError struct {
	Err    error
	Driver string
	Detail string
}

// NewProcessingError creates a processing error for the named driver.
func NewProcessingError(driver, detail string) *ProcessingError {
	return &ProcessingError{Driver: driver, Detail: detail}
}

// WrapProcessingError creates a processing error that keeps err as its cause.
func WrapProcessingError(driver, detail string, err error) *ProcessingError {
	return &ProcessingError{Driver: driver, Detail: detail, Err: err}
}

func (e *ProcessingError) Error() string {
	msg := fmt.Sprintf("[driver %s] Processing Error: %s", e.Driver, e.Detail)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is makes errors.Is(err, ErrProcessing) succeed.
func (e *ProcessingError) Is(target error) bool {
	return target == ErrProcessing
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}
