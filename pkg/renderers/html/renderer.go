package html

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/google/uuid"

	"github.com/goliatone/go-formflow/pkg/render"
	rendertemplate "github.com/goliatone/go-formflow/pkg/render/template"
	gotemplate "github.com/goliatone/go-formflow/pkg/render/template/gotemplate"
)

const (
	pageTemplate     = "page"
	fragmentTemplate = "fragment"
	catalogTemplate  = "catalog"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	swapID           func() string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithSwapIDs overrides how fragment element ids are generated.
func WithSwapIDs(next func() string) Option {
	return func(cfg *config) {
		if next != nil {
			cfg.swapID = next
		}
	}
}

type Renderer struct {
	templates rendertemplate.TemplateRenderer
	swapID    func() string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS: TemplatesFS(),
		swapID: func() string {
			return "formflow-swap-" + uuid.NewString()
		},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithPreload(pageTemplate, fragmentTemplate, catalogTemplate),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, swapID: cfg.swapID}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) RenderPage(_ context.Context, page render.Page, w io.Writer) error {
	return r.execute(pageTemplate, map[string]any{
		"page":   page,
		"layout": page.Layout,
	}, w)
}

func (r *Renderer) RenderFragment(_ context.Context, page render.Page, w io.Writer) error {
	return r.execute(fragmentTemplate, map[string]any{
		"page": page,
		"swap": r.swapID(),
	}, w)
}

func (r *Renderer) RenderCatalog(_ context.Context, catalog render.Catalog, w io.Writer) error {
	return r.execute(catalogTemplate, map[string]any{
		"catalog": catalog,
		"layout":  catalog.Layout,
	}, w)
}

func (r *Renderer) execute(name string, data map[string]any, w io.Writer) error {
	if r.templates == nil {
		return fmt.Errorf("html renderer: template renderer is nil")
	}
	if _, err := r.templates.RenderTemplate(name, data, w); err != nil {
		return fmt.Errorf("html renderer: render %s: %w", name, err)
	}
	return nil
}
