package validation

import (
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-formflow/pkg/model"
)

// Fields is the immutable snapshot rules evaluate: the (optionally trimmed)
// text of every declared field plus the parsed value of numeric fields.
// Numbers that fail to parse are absent, so numeric rules fail on them.
// NaN and infinities count as unparsed, and integer fields only accept
// whole numbers.
type Fields struct {
	text    map[string]string
	numbers map[string]float64
}

// Collect reads raw submitted values keyed by input name and produces the
// Fields snapshot for the form. Undeclared inputs are ignored; missing
// inputs read as empty strings.
func Collect(form model.FormModel, raw map[string]string) Fields {
	fields := Fields{
		text:    make(map[string]string, len(form.Fields)),
		numbers: make(map[string]float64),
	}
	for _, field := range form.Fields {
		value := raw[field.InputName()]
		if field.Trim {
			value = strings.TrimSpace(value)
		}
		fields.text[field.Name] = value

		if !field.Type.IsNumeric() || value == "" {
			continue
		}
		if number, ok := parseNumber(field.Type, value); ok {
			fields.numbers[field.Name] = number
		}
	}
	return fields
}

// FieldsOf builds a snapshot directly from field-name keyed text. Values
// that parse as numbers are exposed through Number as well.
func FieldsOf(values map[string]string) Fields {
	fields := Fields{
		text:    make(map[string]string, len(values)),
		numbers: make(map[string]float64),
	}
	for name, value := range values {
		fields.text[name] = value
		if number, ok := parseNumber(model.FieldTypeNumber, strings.TrimSpace(value)); ok {
			fields.numbers[name] = number
		}
	}
	return fields
}

func parseNumber(kind model.FieldType, value string) (float64, bool) {
	if kind == model.FieldTypeInteger {
		number, err := strconv.Atoi(value)
		if err != nil {
			return 0, false
		}
		return float64(number), true
	}
	number, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(number) || math.IsInf(number, 0) {
		return 0, false
	}
	return number, true
}

// Text returns the field's text, or "" when the field is unknown.
func (f Fields) Text(name string) string {
	return f.text[name]
}

// Number returns the field's numeric value and whether it parsed.
func (f Fields) Number(name string) (float64, bool) {
	number, ok := f.numbers[name]
	return number, ok
}

// Values returns a copy of the field-name keyed text.
func (f Fields) Values() map[string]string {
	out := make(map[string]string, len(f.text))
	for name, value := range f.text {
		out[name] = value
	}
	return out
}
