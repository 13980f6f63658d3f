package flow

import (
	"errors"
	"strings"

	"github.com/goliatone/go-formflow/pkg/validation"
)

var (
	// ErrSubmissionInFlight is returned when a submit arrives while the
	// previous one on the same instance is still pending.
	ErrSubmissionInFlight = errors.New("flow: submission already in flight")
	// ErrFlowClosed is returned once the flow has navigated away.
	ErrFlowClosed = errors.New("flow: flow already completed")
	// ErrUnavailable is returned when the entity behind the form failed to
	// load.
	ErrUnavailable = errors.New("flow: form unavailable")
	// ErrInvalidConfig is returned by New for incomplete configurations.
	ErrInvalidConfig = errors.New("flow: invalid configuration")
)

// FallbackMessage is shown when a rejection carries no message.
const FallbackMessage = "Something went wrong. Please try again."

// ValidationError is a locally detected failure. It never reaches the API.
type ValidationError struct {
	Message string
	Invalid validation.FieldSet
}

func (e *ValidationError) Error() string {
	return e.Message
}

// SubmissionError wraps an API rejection. It never marks fields.
type SubmissionError struct {
	Message string
	Err     error
}

func (e *SubmissionError) Error() string {
	return e.Message
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// UserMessager is implemented by errors that carry a message meant for the
// person filling in the form.
type UserMessager interface {
	UserMessage() string
}

// MessageOf extracts the user-facing message from a rejection.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var messager UserMessager
	if errors.As(err, &messager) {
		if msg := strings.TrimSpace(messager.UserMessage()); msg != "" {
			return msg
		}
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return FallbackMessage
}

// userMessageOf returns the message err carries for the user, or "" when it
// carries none.
func userMessageOf(err error) string {
	var messager UserMessager
	if errors.As(err, &messager) {
		return strings.TrimSpace(messager.UserMessage())
	}
	return ""
}

// StateOf converts a validation or submission error into the State shown to
// the user.
func StateOf(err error) State {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return State{Message: validationErr.Message, Invalid: validationErr.Invalid}
	}
	return State{Message: MessageOf(err)}
}
