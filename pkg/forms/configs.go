package forms

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formflow/pkg/flow"
	"github.com/goliatone/go-formflow/pkg/loader"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/validation"
)

// Catalog is the furniture API surface the furniture flows need.
type Catalog interface {
	CreateItem(ctx context.Context, item model.Furniture) (model.Furniture, error)
	EditItem(ctx context.Context, id string, item model.Furniture) (model.Furniture, error)
	GetByID(ctx context.Context, id string) (model.Furniture, error)
}

// Registrar creates user accounts.
type Registrar interface {
	Register(ctx context.Context, email, password string) (model.User, error)
}

// NavRefresher updates navigation (session, menus) once a user has
// registered. It runs before the flow navigates away.
type NavRefresher func(ctx context.Context, user model.User) error

// CreateFurniture returns the create-furniture flow configuration.
func (s *Set) CreateFurniture(catalog Catalog) (flow.Config[model.Furniture], error) {
	if catalog == nil {
		return flow.Config[model.Furniture]{}, fmt.Errorf("forms: create furniture: catalog is nil")
	}
	form, err := s.Form(CreateFurnitureID)
	if err != nil {
		return flow.Config[model.Furniture]{}, err
	}
	return flow.Config[model.Furniture]{
		Form:   form,
		Build:  BuildFurniture,
		Encode: EncodeFurniture,
		Submit: func(ctx context.Context, item model.Furniture) (model.Furniture, error) {
			return catalog.CreateItem(ctx, item)
		},
		SuccessPath: flow.DefaultSuccessPath,
	}, nil
}

// EditFurniture returns the edit-furniture flow configuration for item id.
// The form action is resolved against id.
func (s *Set) EditFurniture(catalog Catalog, id string) (flow.Config[model.Furniture], error) {
	if catalog == nil {
		return flow.Config[model.Furniture]{}, fmt.Errorf("forms: edit furniture: catalog is nil")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return flow.Config[model.Furniture]{}, fmt.Errorf("forms: edit furniture: item id is required")
	}
	form, err := s.Form(EditFurnitureID)
	if err != nil {
		return flow.Config[model.Furniture]{}, err
	}
	form.Action = strings.ReplaceAll(form.Action, "{id}", id)

	return flow.Config[model.Furniture]{
		Form:   form,
		Build:  BuildFurniture,
		Encode: EncodeFurniture,
		Submit: func(ctx context.Context, item model.Furniture) (model.Furniture, error) {
			return catalog.EditItem(ctx, id, item)
		},
		SuccessPath: flow.DefaultSuccessPath,
	}, nil
}

// LoadFurniture starts fetching the item the edit form is populated with.
func LoadFurniture(ctx context.Context, catalog Catalog, id string) *loader.Deferred[model.Furniture] {
	return loader.Load[model.Furniture](ctx, id, catalog.GetByID)
}

// RegisterUser returns the registration flow configuration. refresh may be
// nil.
func (s *Set) RegisterUser(registrar Registrar, refresh NavRefresher) (flow.Config[model.User], error) {
	if registrar == nil {
		return flow.Config[model.User]{}, fmt.Errorf("forms: register user: registrar is nil")
	}
	form, err := s.Form(RegisterID)
	if err != nil {
		return flow.Config[model.User]{}, err
	}

	cfg := flow.Config[model.User]{
		Form: form,
		Build: func(fields validation.Fields) (model.User, error) {
			return model.User{
				Email:    fields.Text("email"),
				Password: fields.Text("password"),
			}, nil
		},
		Submit: func(ctx context.Context, user model.User) (model.User, error) {
			return registrar.Register(ctx, user.Email, user.Password)
		},
		SuccessPath: flow.DefaultSuccessPath,
	}
	if refresh != nil {
		cfg.AfterSuccess = func(ctx context.Context, user model.User) error {
			return refresh(ctx, user)
		}
	}
	return cfg, nil
}

// BuildFurniture converts validated fields into a furniture item. Year and
// price are numeric by the time rules have passed; Material stays optional.
func BuildFurniture(fields validation.Fields) (model.Furniture, error) {
	year, ok := fields.Number("year")
	if !ok {
		return model.Furniture{}, &flow.ValidationError{
			Message: "Year must be between 1950 and 2050",
			Invalid: validation.NewFieldSet("year"),
		}
	}
	price, ok := fields.Number("price")
	if !ok {
		return model.Furniture{}, &flow.ValidationError{
			Message: "Price must be a positive number",
			Invalid: validation.NewFieldSet("price"),
		}
	}
	return model.Furniture{
		Make:        fields.Text("make"),
		Model:       fields.Text("model"),
		Year:        int(year),
		Description: fields.Text("description"),
		Price:       price,
		Img:         fields.Text("img"),
		Material:    fields.Text("material"),
	}, nil
}

// EncodeFurniture renders an item as form values.
func EncodeFurniture(item model.Furniture) map[string]string {
	return map[string]string{
		"make":        item.Make,
		"model":       item.Model,
		"year":        strconv.Itoa(item.Year),
		"description": item.Description,
		"price":       strconv.FormatFloat(item.Price, 'f', -1, 64),
		"img":         item.Img,
		"material":    item.Material,
	}
}
