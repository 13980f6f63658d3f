package render

import (
	"errors"
	"fmt"
	"maps"
	"path"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// StylesheetAsset is the asset key layouts link as their stylesheet.
const StylesheetAsset = "formflow.stylesheet"

// ErrUnknownTheme is returned when no manifest is registered under a name.
var ErrUnknownTheme = errors.New("render: unknown theme")

// Themes resolves manifests registered with a go-theme registry into the
// renderer configuration page templates consume.
type Themes struct {
	mu        sync.RWMutex
	provider  theme.ThemeProvider
	register  func(*theme.Manifest) error
	manifests map[string]*theme.Manifest
}

var _ theme.ThemeSelector = (*Themes)(nil)

// NewThemes returns an empty theme set.
func NewThemes() *Themes {
	registry := theme.NewRegistry()
	return &Themes{
		provider:  registry,
		register:  registry.Register,
		manifests: make(map[string]*theme.Manifest),
	}
}

// DefaultThemes returns a set holding the built-in furniture theme.
func DefaultThemes() (*Themes, error) {
	themes := NewThemes()
	if err := themes.Register(FurnitureTheme()); err != nil {
		return nil, err
	}
	return themes, nil
}

// Register adds a manifest.
func (t *Themes) Register(manifest *theme.Manifest) error {
	if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
		return errors.New("render: theme manifest needs a name")
	}
	if err := t.register(manifest); err != nil {
		return fmt.Errorf("render: register theme %q: %w", manifest.Name, err)
	}
	t.mu.Lock()
	t.manifests[manifest.Name] = manifest
	t.mu.Unlock()
	return nil
}

// Provider exposes the underlying go-theme provider.
func (t *Themes) Provider() theme.ThemeProvider {
	return t.provider
}

// Select implements theme.ThemeSelector. An unknown variant falls back to
// the base manifest.
func (t *Themes) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	t.mu.RLock()
	manifest, ok := t.manifests[name]
	t.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	if _, known := manifest.Variants[variant]; !known {
		variant = ""
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// Resolve selects a theme and flattens it into a renderer configuration:
// variant tokens, templates, and assets override the base manifest, and
// every token becomes a "--token" CSS variable.
func (t *Themes) Resolve(name, variant string) (*theme.RendererConfig, error) {
	selection, err := t.Select(name, variant)
	if err != nil {
		return nil, err
	}
	manifest := selection.Manifest

	tokens := maps.Clone(manifest.Tokens)
	partials := maps.Clone(manifest.Templates)
	files := maps.Clone(manifest.Assets.Files)
	prefix := manifest.Assets.Prefix
	if v, ok := manifest.Variants[selection.Variant]; ok {
		tokens = overlay(tokens, v.Tokens)
		partials = overlay(partials, v.Templates)
		files = overlay(files, v.Assets.Files)
		if v.Assets.Prefix != "" {
			prefix = v.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+strings.TrimPrefix(key, "--")] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Tokens:   tokens,
		Partials: partials,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			if strings.HasPrefix(file, "/") || strings.Contains(file, "://") {
				return file
			}
			return path.Join(prefix, file)
		},
	}, nil
}

func overlay(base, extra map[string]string) map[string]string {
	if len(extra) == 0 {
		return base
	}
	if base == nil {
		base = make(map[string]string, len(extra))
	}
	for key, value := range extra {
		base[key] = value
	}
	return base
}

// FurnitureTheme is the built-in theme for the catalog pages.
func FurnitureTheme() *theme.Manifest {
	return &theme.Manifest{
		Name:    "furniture",
		Version: "1.0.0",
		Tokens: map[string]string{
			"color-bg":      "#ffffff",
			"color-text":    "#212529",
			"color-primary": "#0d6efd",
			"color-info":    "#0dcaf0",
			"color-danger":  "#dc3545",
			"radius":        "0.375rem",
		},
		Assets: theme.Assets{
			Prefix: "/assets",
			Files: map[string]string{
				StylesheetAsset: "formflow.css",
			},
		},
		Variants: map[string]theme.Variant{
			"light": {},
			"dark": {
				Tokens: map[string]string{
					"color-bg":   "#1f2226",
					"color-text": "#e9ecef",
				},
			},
		},
	}
}
