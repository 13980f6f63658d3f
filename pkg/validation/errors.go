package validation

import "errors"

var (
	// ErrUnknownRule is returned when a definition names an unsupported kind.
	ErrUnknownRule = errors.New("validation: unknown rule kind")
	// ErrInvalidRule is returned when a definition has malformed parameters.
	ErrInvalidRule = errors.New("validation: invalid rule")
	// ErrMissingMessage is returned when a definition has no message.
	ErrMissingMessage = errors.New("validation: rule message is required")
	// ErrMissingFields is returned when a definition lists no fields.
	ErrMissingFields = errors.New("validation: rule fields are required")
	// ErrUnknownField is returned when a rule references an undeclared field.
	ErrUnknownField = errors.New("unknown field")
)
