package html

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/goliatone/go-formflow/pkg/flow"
	"github.com/goliatone/go-formflow/pkg/render"
)

// View adapts a Renderer to flow.View over a single HTTP response.
type View struct {
	mu       sync.Mutex
	renderer render.Renderer
	w        http.ResponseWriter
	opts     render.RenderOptions
	status   int
	written  bool
	renders  int
}

var _ flow.View = (*View)(nil)

// NewView binds renderer to w. Every page is rendered with opts.
func NewView(renderer render.Renderer, w http.ResponseWriter, opts render.RenderOptions) *View {
	return &View{renderer: renderer, w: w, opts: opts, status: http.StatusOK}
}

// WithStatus sets the status code sent with the first render.
func (v *View) WithStatus(status int) *View {
	v.mu.Lock()
	v.status = status
	v.mu.Unlock()
	return v
}

// Written reports whether anything has been sent.
func (v *View) Written() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.written
}

// Renders counts completed renders.
func (v *View) Renders() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.renders
}

func (v *View) Render(ctx context.Context, page flow.Page) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	view := render.BuildPage(page, v.opts)
	if !v.written {
		v.w.Header().Set("Content-Type", v.renderer.ContentType())
		v.w.WriteHeader(v.status)
		v.written = true
		if err := v.renderer.RenderPage(ctx, view, v.w); err != nil {
			return err
		}
	} else if err := v.renderer.RenderFragment(ctx, view, v.w); err != nil {
		return err
	}
	v.renders++
	return v.flush()
}

// Redirect answers 303 See Other when nothing has been sent yet. Once the
// document has started it appends a script that replaces the location.
func (v *View) Redirect(_ context.Context, path string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.written {
		v.w.Header().Set("Location", path)
		v.w.WriteHeader(http.StatusSeeOther)
		v.written = true
		return nil
	}
	target, err := json.Marshal(path)
	if err != nil {
		return fmt.Errorf("html view: encode redirect: %w", err)
	}
	if _, err := io.WriteString(v.w, "<script>window.location.replace("+string(target)+");</script>\n"); err != nil {
		return fmt.Errorf("html view: write redirect: %w", err)
	}
	return v.flush()
}

func (v *View) flush() error {
	err := http.NewResponseController(v.w).Flush()
	if err != nil && !errors.Is(err, http.ErrNotSupported) {
		return fmt.Errorf("html view: flush: %w", err)
	}
	return nil
}
