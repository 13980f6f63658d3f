package testsupport

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/goliatone/go-formflow/pkg/model"
)

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// ValidFurnitureInput returns a furniture submission keyed by input name
// that passes every furniture rule.
func ValidFurnitureInput() map[string]string {
	return map[string]string{
		"make":        "Table",
		"model":       "Oakwood",
		"year":        "2015",
		"description": "Solid oak dining table",
		"price":       "235",
		"img":         "/images/table.png",
		"material":    "Wood",
	}
}

// ValidFurniture is the entity ValidFurnitureInput builds.
func ValidFurniture() model.Furniture {
	return model.Furniture{
		Make:        "Table",
		Model:       "Oakwood",
		Year:        2015,
		Description: "Solid oak dining table",
		Price:       235,
		Img:         "/images/table.png",
		Material:    "Wood",
	}
}

// With returns a copy of input with key set to value.
func With(input map[string]string, key, value string) map[string]string {
	out := make(map[string]string, len(input)+1)
	for k, v := range input {
		out[k] = v
	}
	out[key] = value
	return out
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents. Tests can assert
// the renderer returns and writes the same payload without duplicating buffer
// setup.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
