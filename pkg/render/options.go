package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formflow/pkg/model"
)

// RenderOptions describe per-request data that views combine with a
// flow.Page without mutating the form model.
type RenderOptions struct {
	// Hidden carries submission bookkeeping (for example the page-view
	// token) rendered as hidden inputs.
	Hidden map[string]string
	// User is the signed-in user shown in the navigation, if any.
	User *model.User
	// Theme is the resolved theme; nil renders without tokens.
	Theme *theme.RendererConfig
	// Nav lists the navigation links.
	Nav []NavLink
}

// NavLink is one navigation entry.
type NavLink struct {
	Label  string `json:"label"`
	Href   string `json:"href"`
	Method string `json:"method,omitempty"`
}

// DefaultNav returns the navigation for a guest or a signed-in user.
func DefaultNav(user *model.User) []NavLink {
	links := []NavLink{{Label: "Dashboard", Href: "/"}}
	if user == nil {
		return append(links, NavLink{Label: "Register", Href: "/register"})
	}
	return append(links,
		NavLink{Label: "Create Furniture", Href: "/create"},
		NavLink{Label: "Logout", Href: "/logout", Method: "POST"},
	)
}
