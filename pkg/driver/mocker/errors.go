package mocker

import (
	"errors"
	"fmt"
)

// ErrSimulated matches every *Error produced in failure mode.
var ErrSimulated = errors.New("mocker: simulated failure")

// Error is the synthesized failure returned in ModeFailure.
type Error struct {
	Message string
	Code    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("mocker: simulated failure with code %d", e.Code)
}

// Is makes errors.Is(err, ErrSimulated) succeed.
func (e *Error) Is(target error) bool {
	return target == ErrSimulated
}
