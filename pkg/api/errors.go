package api

import (
	"errors"
	"fmt"
)

// NetworkErrorMessage is the user-facing message for transport failures.
const NetworkErrorMessage = "Network error"

var (
	// ErrUnknownOperation is returned when an operation has no route.
	ErrUnknownOperation = errors.New("api: unknown operation")
	// ErrBaseURLRequired is returned by New without a base URL.
	ErrBaseURLRequired = errors.New("api: base url is required")
)

// Error is a rejected or failed API call. Status is zero when no response
// was received.
type Error struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("api: %s: %d %s", e.Op, e.Status, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("api: %s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("api: %s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage returns the message the API (or the transport) reported.
func (e *Error) UserMessage() string {
	return e.Message
}

// IsStatus reports whether err is an *Error carrying status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}
