package validation

import "unicode/utf8"

// Rule is a pure check over a Fields snapshot.
type Rule interface {
	Check(fields Fields) Result
}

// RuleFunc adapts a function to Rule.
type RuleFunc func(fields Fields) Result

// Check implements Rule.
func (f RuleFunc) Check(fields Fields) Result {
	return f(fields)
}

// Run evaluates rules in order and returns the first failure. Later rules
// never see input an earlier rule rejected.
func Run(fields Fields, rules ...Rule) Result {
	for _, rule := range rules {
		if rule == nil {
			continue
		}
		if result := rule.Check(fields); result.Failed {
			return result
		}
	}
	return Ok()
}

// Required fails when any listed field is empty. No field is marked: the
// message speaks for the whole form.
func Required(message string, fields ...string) Rule {
	return RuleFunc(func(values Fields) Result {
		for _, name := range fields {
			if values.Text(name) == "" {
				return Fail(message)
			}
		}
		return Ok()
	})
}

// RequiredMarked fails when any listed field is empty and marks every empty
// one.
func RequiredMarked(message string, fields ...string) Rule {
	return RequiredMarkedWith(message, fields, nil)
}

// RequiredMarkedWith fails when any of fields is empty. On failure it marks
// every empty field from fields and also; the also fields never trigger the
// rule on their own.
func RequiredMarkedWith(message string, fields, also []string) Rule {
	return RuleFunc(func(values Fields) Result {
		var empty []string
		for _, name := range fields {
			if values.Text(name) == "" {
				empty = append(empty, name)
			}
		}
		if len(empty) == 0 {
			return Ok()
		}
		for _, name := range also {
			if values.Text(name) == "" {
				empty = append(empty, name)
			}
		}
		return Fail(message, empty...)
	})
}

// MinLength fails when any listed field has fewer than min characters and
// marks exactly the short ones.
func MinLength(message string, min int, fields ...string) Rule {
	return RuleFunc(func(values Fields) Result {
		var short []string
		for _, name := range fields {
			if utf8.RuneCountInString(values.Text(name)) < min {
				short = append(short, name)
			}
		}
		if len(short) > 0 {
			return Fail(message, short...)
		}
		return Ok()
	})
}

// Range fails when the field is not a number within [min, max].
func Range(message, field string, min, max float64) Rule {
	return RuleFunc(func(values Fields) Result {
		number, ok := values.Number(field)
		if !ok || number < min || number > max {
			return Fail(message, field)
		}
		return Ok()
	})
}

// Min fails when the field is not a number of at least min.
func Min(message, field string, min float64) Rule {
	return RuleFunc(func(values Fields) Result {
		number, ok := values.Number(field)
		if !ok || number < min {
			return Fail(message, field)
		}
		return Ok()
	})
}

// Equal fails when the two fields differ and marks both.
func Equal(message, field, other string) Rule {
	return RuleFunc(func(values Fields) Result {
		if values.Text(field) != values.Text(other) {
			return Fail(message, field, other)
		}
		return Ok()
	})
}
