package forms

import "errors"

// ErrUnknownForm is returned when a form ID has no definition.
var ErrUnknownForm = errors.New("forms: unknown form")
