package validation

import (
	"slices"
	"strings"
)

// FieldSet is a sorted, de-duplicated list of field names marked invalid.
// The zero value is the empty set.
type FieldSet []string

// NewFieldSet normalises names into a FieldSet. Blank names are dropped.
func NewFieldSet(names ...string) FieldSet {
	if len(names) == 0 {
		return nil
	}
	out := make(FieldSet, 0, len(names))
	for _, name := range names {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	slices.Sort(out)
	out = slices.Compact(out)
	if len(out) == 0 {
		return nil
	}
	return out
}

// Has reports whether name is in the set.
func (s FieldSet) Has(name string) bool {
	_, found := slices.BinarySearch(s, name)
	return found
}

// Len returns the number of marked fields.
func (s FieldSet) Len() int {
	return len(s)
}

// Flags expands the set into the name→bool shape views use to toggle the
// invalid marker on inputs.
func (s FieldSet) Flags() map[string]bool {
	if len(s) == 0 {
		return map[string]bool{}
	}
	out := make(map[string]bool, len(s))
	for _, name := range s {
		out[name] = true
	}
	return out
}

// Result is the outcome of one rule, or of a whole rule list. The zero
// value is Ok.
type Result struct {
	Failed  bool
	Message string
	Invalid FieldSet
}

// Ok is the passing result.
func Ok() Result {
	return Result{}
}

// Fail builds a failing result marking the given fields.
func Fail(message string, fields ...string) Result {
	return Result{
		Failed:  true,
		Message: message,
		Invalid: NewFieldSet(fields...),
	}
}

// OK reports whether the result passed.
func (r Result) OK() bool {
	return !r.Failed
}
