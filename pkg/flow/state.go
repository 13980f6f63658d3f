package flow

import (
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/validation"
)

// State is the transient error state of one flow instance. The zero value
// is the clean state: no message, no invalid fields.
type State struct {
	Message string
	Invalid validation.FieldSet
}

// HasError reports whether a message should be shown.
func (s State) HasError() bool {
	return s.Message != ""
}

// PageKind tells the view which variant of the form page to draw.
type PageKind int

const (
	PageForm        PageKind = iota // Form with current values and state
	PageLoading                     // Placeholder while the entity loads
	PageUnavailable                 // The entity could not be loaded
)

// Page is everything a View needs for one render. Values are keyed by
// field name.
type Page struct {
	Kind   PageKind
	Form   model.FormModel
	Values map[string]string
	State  State
}

// Outcome classifies a handled submission.
type Outcome int

const (
	OutcomeInvalid   Outcome = iota // A rule failed; no API call was made
	OutcomeRejected                 // The API call failed
	OutcomeSucceeded                // The API call succeeded and the flow navigated away
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInvalid:
		return "invalid"
	case OutcomeRejected:
		return "rejected"
	case OutcomeSucceeded:
		return "succeeded"
	default:
		return "unknown"
	}
}
