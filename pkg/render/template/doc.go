// Package template defines the template engine seam the HTML renderer
// depends on. The pongo2-backed implementation lives in gotemplate.
package template
