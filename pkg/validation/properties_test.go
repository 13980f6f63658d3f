package validation_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"

	"github.com/goliatone/go-formflow/pkg/validation"
)

func drawFurniture(t *rapid.T) map[string]string {
	text := rapid.StringMatching(`[ a-zA-Z0-9]{0,14}`)
	number := rapid.OneOf(
		rapid.StringMatching(`-?[0-9]{1,4}`),
		rapid.StringMatching(`[a-z]{0,3}`),
	)
	return map[string]string{
		"make":        text.Draw(t, "make"),
		"model":       text.Draw(t, "model"),
		"year":        number.Draw(t, "year"),
		"description": text.Draw(t, "description"),
		"price":       number.Draw(t, "price"),
		"img":         text.Draw(t, "img"),
		"material":    text.Draw(t, "material"),
	}
}

func TestRun_IsPure(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		raw := drawFurniture(t)
		rules := furnitureRules()

		first := validation.Run(validation.Collect(furnitureForm(), raw), rules...)
		second := validation.Run(validation.Collect(furnitureForm(), raw), rules...)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Fatalf("validation is not idempotent (-first +second):\n%s", diff)
		}
	})
}

func TestRun_InvalidFieldsAreDeclared(t *testing.T) {
	declared := map[string]bool{}
	for _, name := range furnitureForm().FieldNames() {
		declared[name] = true
	}

	rapid.Check(t, func(t *rapid.T) {
		result := validation.Run(validation.Collect(furnitureForm(), drawFurniture(t)), furnitureRules()...)
		if !result.Failed {
			if result.Invalid.Len() != 0 || result.Message != "" {
				t.Fatalf("passing result carries error state: %+v", result)
			}
			return
		}
		if result.Message == "" {
			t.Fatalf("failing result without message")
		}
		for _, name := range result.Invalid {
			if !declared[name] {
				t.Fatalf("invalid field %q is not declared by the form", name)
			}
		}
	})
}
