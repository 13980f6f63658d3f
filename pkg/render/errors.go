package render

import (
	"strings"

	"github.com/goliatone/go-formflow/pkg/flow"
	"github.com/goliatone/go-formflow/pkg/model"
)

// ErrorMapping splits a flow.State into the form-level message lines and
// the per-input invalid markers keyed by input name.
type ErrorMapping struct {
	Inputs map[string]bool
	Form   []string
}

// MapState normalises state for the given form. Invalid names that the form
// does not declare are dropped; the message is sanitized.
func MapState(form model.FormModel, state flow.State) ErrorMapping {
	mapping := ErrorMapping{}
	if msg := SanitizeMessage(state.Message); msg != "" {
		mapping.Form = []string{msg}
	}
	for _, name := range state.Invalid {
		field, ok := form.Field(name)
		if !ok {
			continue
		}
		if mapping.Inputs == nil {
			mapping.Inputs = make(map[string]bool, len(state.Invalid))
		}
		mapping.Inputs[field.InputName()] = true
	}
	return mapping
}

// MergeFormErrors concatenates and normalises multiple form-level error
// slices, trimming whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
