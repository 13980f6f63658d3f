package validation_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/validation"
)

func furnitureForm() model.FormModel {
	return model.FormModel{
		ID: "furniture",
		Fields: []model.Field{
			{Name: "make", Type: model.FieldTypeString, Required: true, Trim: true},
			{Name: "model", Type: model.FieldTypeString, Required: true, Trim: true},
			{Name: "year", Type: model.FieldTypeInteger, Required: true, Trim: true},
			{Name: "description", Type: model.FieldTypeString, Required: true, Trim: true},
			{Name: "price", Type: model.FieldTypeNumber, Required: true, Trim: true},
			{Name: "img", Type: model.FieldTypeString, Required: true, Trim: true},
			{Name: "material", Type: model.FieldTypeString, Trim: true},
		},
	}
}

func furnitureRules() []validation.Rule {
	return []validation.Rule{
		validation.Required("Please fill all mandatory fields!", "make", "model", "year", "description", "price", "img"),
		validation.MinLength("Field should be at least 4 chars", 4, "make", "model"),
		validation.MinLength("Description must be at least 10 chars", 10, "description"),
		validation.Range("Year must be between 1950 and 2050", "year", 1950, 2050),
		validation.Min("Price must be a positive number", "price", 0),
	}
}

func validFurniture() map[string]string {
	return map[string]string{
		"make":        "Table",
		"model":       "Oakwood",
		"year":        "2015",
		"description": "Solid oak dining table",
		"price":       "235",
		"img":         "/images/table.png",
		"material":    "",
	}
}

func with(base map[string]string, key, value string) map[string]string {
	out := make(map[string]string, len(base))
	for k, v := range base {
		out[k] = v
	}
	out[key] = value
	return out
}

func TestRun_FurnitureRules(t *testing.T) {
	cases := []struct {
		name string
		raw  map[string]string
		want validation.Result
	}{
		{
			name: "valid",
			raw:  validFurniture(),
			want: validation.Ok(),
		},
		{
			name: "mandatory field blank after trim",
			raw:  with(validFurniture(), "img", "   "),
			want: validation.Result{Failed: true, Message: "Please fill all mandatory fields!"},
		},
		{
			name: "optional material may be empty",
			raw:  with(validFurniture(), "material", ""),
			want: validation.Ok(),
		},
		{
			name: "short make",
			raw:  with(validFurniture(), "make", "abc"),
			want: validation.Fail("Field should be at least 4 chars", "make"),
		},
		{
			name: "short make and model",
			raw:  with(with(validFurniture(), "make", "abc"), "model", " xy "),
			want: validation.Fail("Field should be at least 4 chars", "make", "model"),
		},
		{
			name: "short description",
			raw:  with(validFurniture(), "description", "too short"),
			want: validation.Fail("Description must be at least 10 chars", "description"),
		},
		{
			name: "year below range",
			raw:  with(validFurniture(), "year", "1800"),
			want: validation.Fail("Year must be between 1950 and 2050", "year"),
		},
		{
			name: "year above range",
			raw:  with(validFurniture(), "year", "2051"),
			want: validation.Fail("Year must be between 1950 and 2050", "year"),
		},
		{
			name: "year not a number",
			raw:  with(validFurniture(), "year", "soon"),
			want: validation.Fail("Year must be between 1950 and 2050", "year"),
		},
		{
			name: "year NaN",
			raw:  with(validFurniture(), "year", "NaN"),
			want: validation.Fail("Year must be between 1950 and 2050", "year"),
		},
		{
			name: "year lowercase nan",
			raw:  with(validFurniture(), "year", "nan"),
			want: validation.Fail("Year must be between 1950 and 2050", "year"),
		},
		{
			name: "fractional year",
			raw:  with(validFurniture(), "year", "2000.7"),
			want: validation.Fail("Year must be between 1950 and 2050", "year"),
		},
		{
			name: "price NaN",
			raw:  with(validFurniture(), "price", "NaN"),
			want: validation.Fail("Price must be a positive number", "price"),
		},
		{
			name: "price Infinity",
			raw:  with(validFurniture(), "price", "Infinity"),
			want: validation.Fail("Price must be a positive number", "price"),
		},
		{
			name: "fractional price is allowed",
			raw:  with(validFurniture(), "price", "12.5"),
			want: validation.Ok(),
		},
		{
			name: "negative price",
			raw:  with(validFurniture(), "price", "-5"),
			want: validation.Fail("Price must be a positive number", "price"),
		},
		{
			name: "zero price is allowed",
			raw:  with(validFurniture(), "price", "0"),
			want: validation.Ok(),
		},
		{
			name: "first failing rule wins",
			raw:  with(with(validFurniture(), "make", "abc"), "price", "-5"),
			want: validation.Fail("Field should be at least 4 chars", "make"),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fields := validation.Collect(furnitureForm(), tc.raw)
			got := validation.Run(fields, furnitureRules()...)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("result mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRun_RegisterRules(t *testing.T) {
	form := model.FormModel{
		Fields: []model.Field{
			{Name: "email", Required: true, Trim: true},
			{Name: "password", Format: "password", Required: true, Trim: true},
			{Name: "confirm", Input: "rePass", Format: "password", Trim: true},
		},
	}
	rules := []validation.Rule{
		validation.RequiredMarkedWith("All fields are required!", []string{"email", "password"}, []string{"confirm"}),
		validation.Equal("Passwords do not match", "password", "confirm"),
	}

	cases := []struct {
		name string
		raw  map[string]string
		want validation.Result
	}{
		{
			name: "mismatch",
			raw:  map[string]string{"email": "peter@abv.bg", "password": "abc", "rePass": "xyz"},
			want: validation.Fail("Passwords do not match", "password", "confirm"),
		},
		{
			name: "blank email and password are marked",
			raw:  map[string]string{"email": " ", "password": "", "rePass": "x"},
			want: validation.Fail("All fields are required!", "email", "password"),
		},
		{
			name: "blank repeat is marked with the required failure",
			raw:  map[string]string{"email": "", "password": "abc", "rePass": " "},
			want: validation.Fail("All fields are required!", "confirm", "email"),
		},
		{
			name: "blank repeat alone does not trigger the required rule",
			raw:  map[string]string{"email": "peter@abv.bg", "password": "abc", "rePass": ""},
			want: validation.Fail("Passwords do not match", "password", "confirm"),
		},
		{
			name: "match",
			raw:  map[string]string{"email": "peter@abv.bg", "password": " 123456 ", "rePass": "123456"},
			want: validation.Ok(),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := validation.Run(validation.Collect(form, tc.raw), rules...)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("result mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCollect_TrimAndNumbers(t *testing.T) {
	form := model.FormModel{
		Fields: []model.Field{
			{Name: "year", Type: model.FieldTypeInteger, Trim: true},
			{Name: "note", Type: model.FieldTypeString},
		},
	}
	fields := validation.Collect(form, map[string]string{"year": " 1999 ", "note": "  keep  ", "extra": "x"})

	if got := fields.Text("year"); got != "1999" {
		t.Fatalf("year text: want 1999, got %q", got)
	}
	if got := fields.Text("note"); got != "  keep  " {
		t.Fatalf("untrimmed field changed: %q", got)
	}
	if n, ok := fields.Number("year"); !ok || n != 1999 {
		t.Fatalf("year number: want 1999, got %v (%v)", n, ok)
	}
	if _, ok := fields.Number("note"); ok {
		t.Fatalf("string fields must not expose numbers")
	}
	if diff := cmp.Diff(map[string]string{"year": "1999", "note": "  keep  "}, fields.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestFieldSet(t *testing.T) {
	set := validation.NewFieldSet("model", " make ", "model", "")
	if diff := cmp.Diff(validation.FieldSet{"make", "model"}, set); diff != "" {
		t.Fatalf("set mismatch (-want +got):\n%s", diff)
	}
	if !set.Has("make") || set.Has("year") {
		t.Fatalf("unexpected membership: %v", set)
	}
	if diff := cmp.Diff(map[string]bool{"make": true, "model": true}, set.Flags()); diff != "" {
		t.Fatalf("flags mismatch (-want +got):\n%s", diff)
	}
	if validation.NewFieldSet() != nil {
		t.Fatalf("empty set should be nil")
	}
}
