package render

import (
	"context"
	"io"
)

// Renderer writes view models to an output stream.
type Renderer interface {
	Name() string
	ContentType() string
	// RenderPage writes a full document.
	RenderPage(ctx context.Context, page Page, w io.Writer) error
	// RenderFragment writes only the part of the document that changes
	// between renders of the same page view.
	RenderFragment(ctx context.Context, page Page, w io.Writer) error
	// RenderCatalog writes the listing page.
	RenderCatalog(ctx context.Context, catalog Catalog, w io.Writer) error
}
