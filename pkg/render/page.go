package render

import (
	"sort"
	"strconv"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formflow/pkg/flow"
	"github.com/goliatone/go-formflow/pkg/model"
)

// Page kinds as seen by templates.
const (
	KindForm        = "form"
	KindLoading     = "loading"
	KindUnavailable = "unavailable"
)

// Default notices used when a form does not declare its own.
const (
	DefaultLoadingNotice     = "Loading…"
	DefaultUnavailableNotice = "This page is not available."
)

// Page is the view model of one render of a form page.
type Page struct {
	Kind        string        `json:"kind"`
	FormID      string        `json:"formId"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Action      string        `json:"action"`
	Method      string        `json:"method"`
	SubmitLabel string        `json:"submitLabel"`
	SubmitStyle string        `json:"submitStyle"`
	Columns     [][]FieldView `json:"columns"`
	Errors      []string      `json:"errors,omitempty"`
	Notice      string        `json:"notice,omitempty"`
	Hidden      []HiddenField `json:"hidden,omitempty"`
	Layout      Layout        `json:"layout"`
}

// Message returns the form-level message, or "".
func (p Page) Message() string {
	return strings.Join(p.Errors, " ")
}

// Invalid lists the input names marked invalid, sorted.
func (p Page) Invalid() []string {
	var out []string
	for _, column := range p.Columns {
		for _, field := range column {
			if field.Invalid {
				out = append(out, field.Input)
			}
		}
	}
	sort.Strings(out)
	return out
}

// FieldView is one input as rendered.
type FieldView struct {
	Name        string `json:"name"`
	Input       string `json:"input"`
	ID          string `json:"id"`
	Label       string `json:"label"`
	Type        string `json:"type"`
	Value       string `json:"value"`
	Placeholder string `json:"placeholder,omitempty"`
	Required    bool   `json:"required"`
	Invalid     bool   `json:"invalid"`
}

// Layout is the chrome around every page.
type Layout struct {
	Nav      []NavLink `json:"nav"`
	User     string    `json:"user,omitempty"`
	SignedIn bool      `json:"signedIn"`
	Theme    ThemeView `json:"theme"`
}

// ThemeView is the template-facing part of a resolved theme.
type ThemeView struct {
	Name       string `json:"name,omitempty"`
	Variant    string `json:"variant,omitempty"`
	Style      string `json:"style,omitempty"`
	Stylesheet string `json:"stylesheet,omitempty"`
}

// BuildPage combines a flow page with per-request options.
func BuildPage(page flow.Page, opts RenderOptions) Page {
	form := page.Form
	errs := MapState(form, page.State)

	out := Page{
		Kind:        pageKind(page.Kind),
		FormID:      form.ID,
		Title:       form.Title,
		Description: form.Description,
		Action:      form.Action,
		Method:      formMethod(form.Method),
		SubmitLabel: form.SubmitLabel,
		SubmitStyle: submitStyle(form.SubmitStyle),
		Errors:      MergeFormErrors(errs.Form),
		Hidden:      SortedHiddenFields(opts.Hidden),
		Layout:      BuildLayout(opts),
	}

	switch page.Kind {
	case flow.PageLoading:
		out.Notice = metadataOr(form, "loading", DefaultLoadingNotice)
		return out
	case flow.PageUnavailable:
		out.Notice = metadataOr(form, "unavailable", DefaultUnavailableNotice)
		return out
	}

	for _, column := range form.Columns() {
		views := make([]FieldView, 0, len(column))
		for _, field := range column {
			views = append(views, fieldView(form.ID, field, page.Values, errs.Inputs))
		}
		out.Columns = append(out.Columns, views)
	}
	return out
}

// BuildLayout resolves the navigation and theme chrome.
func BuildLayout(opts RenderOptions) Layout {
	layout := Layout{
		Nav:   opts.Nav,
		Theme: themeView(opts.Theme),
	}
	if layout.Nav == nil {
		layout.Nav = DefaultNav(opts.User)
	}
	if opts.User != nil {
		layout.User = opts.User.Email
		layout.SignedIn = true
	}
	return layout
}

func fieldView(formID string, field model.Field, values map[string]string, invalid map[string]bool) FieldView {
	input := field.InputName()
	view := FieldView{
		Name:        field.Name,
		Input:       input,
		ID:          formID + "-" + input,
		Label:       field.Label,
		Type:        inputType(field),
		Placeholder: field.Placeholder,
		Required:    field.Required,
		Invalid:     invalid[input],
	}
	if view.Label == "" {
		view.Label = field.Name
	}
	if !field.IsSecret() {
		view.Value = values[field.Name]
	}
	return view
}

func inputType(field model.Field) string {
	switch field.Format {
	case "password", "email", "number", "url":
		return field.Format
	}
	if field.Type.IsNumeric() {
		return "number"
	}
	return "text"
}

func pageKind(kind flow.PageKind) string {
	switch kind {
	case flow.PageLoading:
		return KindLoading
	case flow.PageUnavailable:
		return KindUnavailable
	default:
		return KindForm
	}
}

func formMethod(method string) string {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" || method == "GET" {
		return "POST"
	}
	return method
}

func submitStyle(style string) string {
	if style = strings.TrimSpace(style); style != "" {
		return style
	}
	return "primary"
}

func metadataOr(form model.FormModel, key, fallback string) string {
	if value := strings.TrimSpace(form.Metadata[key]); value != "" {
		return value
	}
	return fallback
}

func themeView(cfg *theme.RendererConfig) ThemeView {
	if cfg == nil {
		return ThemeView{}
	}
	view := ThemeView{
		Name:    cfg.Theme,
		Variant: cfg.Variant,
		Style:   cssVarsStyle(cfg.CSSVars),
	}
	if cfg.AssetURL != nil {
		view.Stylesheet = cfg.AssetURL(StylesheetAsset)
	}
	return view
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString("; ")
	}
	return strings.TrimSpace(b.String())
}

// Catalog is the view model of the listing page.
type Catalog struct {
	Items  []CatalogItem `json:"items"`
	Errors []string      `json:"errors,omitempty"`
	Layout Layout        `json:"layout"`
}

// CatalogItem is one listed furniture item.
type CatalogItem struct {
	ID          string `json:"id"`
	Make        string `json:"make"`
	Model       string `json:"model"`
	Year        string `json:"year"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Img         string `json:"img"`
	Material    string `json:"material,omitempty"`
	EditHref    string `json:"editHref,omitempty"`
}

// BuildCatalog builds the listing view model. loadErr, when set, is shown
// instead of an empty list.
func BuildCatalog(items []model.Furniture, loadErr error, opts RenderOptions) Catalog {
	out := Catalog{Layout: BuildLayout(opts)}
	if loadErr != nil {
		out.Errors = MergeFormErrors(nil, SanitizeMessage(flow.MessageOf(loadErr)))
	}
	for _, item := range items {
		view := CatalogItem{
			ID:          item.ID,
			Make:        item.Make,
			Model:       item.Model,
			Year:        strconv.Itoa(item.Year),
			Description: item.Description,
			Price:       strconv.FormatFloat(item.Price, 'f', 2, 64),
			Img:         item.Img,
			Material:    item.Material,
		}
		if opts.User != nil && item.ID != "" && (item.OwnerID == "" || item.OwnerID == opts.User.ID) {
			view.EditHref = "/edit/" + item.ID
		}
		out.Items = append(out.Items, view)
	}
	sort.SliceStable(out.Items, func(i, j int) bool {
		return out.Items[i].ID < out.Items[j].ID
	})
	return out
}
