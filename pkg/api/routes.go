package api

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

// Operation IDs declared by the embedded description.
const (
	OpListItems  = "listItems"
	OpCreateItem = "createItem"
	OpGetByID    = "getById"
	OpEditItem   = "editItem"
	OpRegister   = "register"
	OpLogout     = "logout"
)

//go:embed openapi.yaml
var openapiDocument []byte

// Route is the method and templated path of one operation.
type Route struct {
	Method string
	Path   string
}

// Routes maps operationId to Route.
type Routes map[string]Route

// Lookup returns the route for op.
func (r Routes) Lookup(op string) (Route, error) {
	route, ok := r[op]
	if !ok {
		return Route{}, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}
	return route, nil
}

// Operations lists the known operation IDs.
func (r Routes) Operations() []string {
	ops := make([]string, 0, len(r))
	for op := range r {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

// LoadRoutes parses and validates an OpenAPI document and extracts one
// Route per operationId.
func LoadRoutes(ctx context.Context, raw []byte) (Routes, error) {
	if len(raw) == 0 {
		return nil, errors.New("api: openapi document is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("api: load openapi document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("api: validate openapi document: %w", err)
	}
	if doc.Paths == nil || doc.Paths.Len() == 0 {
		return nil, errors.New("api: openapi document has no paths")
	}

	routes := make(Routes)
	for path, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for method, operation := range item.Operations() {
			if operation == nil || operation.OperationID == "" {
				continue
			}
			routes[operation.OperationID] = Route{
				Method: strings.ToUpper(method),
				Path:   path,
			}
		}
	}
	return routes, nil
}

var (
	defaultRoutesOnce sync.Once
	defaultRoutes     Routes
	defaultRoutesErr  error
)

// DefaultRoutes returns the routes of the embedded description.
func DefaultRoutes() (Routes, error) {
	defaultRoutesOnce.Do(func() {
		defaultRoutes, defaultRoutesErr = LoadRoutes(context.Background(), openapiDocument)
	})
	return defaultRoutes, defaultRoutesErr
}

// Document returns a copy of the embedded OpenAPI description.
func Document() []byte {
	out := make([]byte, len(openapiDocument))
	copy(out, openapiDocument)
	return out
}
