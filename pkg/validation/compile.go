package validation

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/goliatone/go-formflow/pkg/model"
)

// Compile turns a rule definition into a Rule.
func Compile(def model.ValidationRule) (Rule, error) {
	message := strings.TrimSpace(def.Message)
	if message == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingMessage, def.Kind)
	}
	if len(def.Fields) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingFields, def.Kind)
	}

	switch def.Kind {
	case model.ValidationRuleRequired:
		return Required(message, def.Fields...), nil
	case model.ValidationRuleRequiredMarked:
		return RequiredMarkedWith(message, def.Fields, markParam(def)), nil
	case model.ValidationRuleMinLength:
		min, err := intParam(def, "min")
		if err != nil {
			return nil, err
		}
		return MinLength(message, min, def.Fields...), nil
	case model.ValidationRuleRange:
		if len(def.Fields) != 1 {
			return nil, fmt.Errorf("%w: range takes exactly one field", ErrInvalidRule)
		}
		min, err := floatParam(def, "min")
		if err != nil {
			return nil, err
		}
		max, err := floatParam(def, "max")
		if err != nil {
			return nil, err
		}
		if min > max {
			return nil, fmt.Errorf("%w: range min %v exceeds max %v", ErrInvalidRule, min, max)
		}
		return Range(message, def.Fields[0], min, max), nil
	case model.ValidationRuleMin:
		if len(def.Fields) != 1 {
			return nil, fmt.Errorf("%w: min takes exactly one field", ErrInvalidRule)
		}
		min, err := floatParam(def, "min")
		if err != nil {
			return nil, err
		}
		return Min(message, def.Fields[0], min), nil
	case model.ValidationRuleEqual:
		if len(def.Fields) != 2 {
			return nil, fmt.Errorf("%w: equal takes exactly two fields", ErrInvalidRule)
		}
		return Equal(message, def.Fields[0], def.Fields[1]), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRule, def.Kind)
	}
}

// CompileAll compiles the form's rule list in order and checks that every
// referenced field is declared, so invalid-field sets stay within the form's
// field names.
func CompileAll(form model.FormModel) ([]Rule, error) {
	declared := make(map[string]struct{}, len(form.Fields))
	for _, field := range form.Fields {
		declared[field.Name] = struct{}{}
	}

	rules := make([]Rule, 0, len(form.Rules))
	for idx, def := range form.Rules {
		for _, name := range append(slices.Clone(def.Fields), markParam(def)...) {
			if _, ok := declared[name]; !ok {
				return nil, fmt.Errorf("validation: rule %d (%s): %w: %q", idx, def.Kind, ErrUnknownField, name)
			}
		}
		rule, err := Compile(def)
		if err != nil {
			return nil, fmt.Errorf("validation: rule %d: %w", idx, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// markParam returns the comma separated "mark" param: fields a rule marks
// when empty without being triggered by them.
func markParam(def model.ValidationRule) []string {
	raw := strings.TrimSpace(def.Params["mark"])
	if raw == "" {
		return nil
	}
	var names []string
	for _, name := range strings.Split(raw, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func intParam(def model.ValidationRule, key string) (int, error) {
	raw, ok := def.Params[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s requires %q", ErrInvalidRule, def.Kind, key)
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q: %v", ErrInvalidRule, def.Kind, key, err)
	}
	return value, nil
}

func floatParam(def model.ValidationRule, key string) (float64, error) {
	raw, ok := def.Params[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s requires %q", ErrInvalidRule, def.Kind, key)
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q: %v", ErrInvalidRule, def.Kind, key, err)
	}
	return value, nil
}
