package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/goliatone/go-formflow/pkg/flow"
	"github.com/goliatone/go-formflow/pkg/render"
)

// Session implements flow.View for a terminal. Render prints the page header
// and any message; Prompt collects the next submission from the driver.
type Session struct {
	mu           sync.Mutex
	driver       PromptDriver
	theme        Theme
	opts         render.RenderOptions
	confirmRetry bool

	page       *render.Page
	redirected string
}

var _ flow.View = (*Session)(nil)

// NewSession constructs a session with defaults (survey driver on stdout).
func NewSession(options ...Option) *Session {
	s := &Session{theme: DefaultTheme()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(os.Stdout)
	}
	return s
}

func (s *Session) Render(ctx context.Context, page flow.Page) error {
	view := render.BuildPage(page, s.opts)

	s.mu.Lock()
	s.page = &view
	s.mu.Unlock()

	if err := s.driver.Info(ctx, s.theme.InfoPrefix+view.Title); err != nil {
		return err
	}
	if view.Kind != render.KindForm && view.Notice != "" {
		if err := s.driver.Info(ctx, s.theme.InfoPrefix+view.Notice); err != nil {
			return err
		}
	}
	if msg := view.Message(); msg != "" {
		return s.driver.Info(ctx, s.theme.ErrorPrefix+msg)
	}
	return nil
}

func (s *Session) Redirect(ctx context.Context, path string) error {
	s.mu.Lock()
	s.redirected = path
	s.mu.Unlock()
	return s.driver.Info(ctx, fmt.Sprintf("%sDone. Continue at %s", s.theme.InfoPrefix, path))
}

// Page returns the last rendered page.
func (s *Session) Page() (render.Page, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.page == nil {
		return render.Page{}, false
	}
	return *s.page, true
}

// Redirected returns the path the flow navigated to, or "".
func (s *Session) Redirected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.redirected
}

// Prompt asks for every input of the last rendered form, keyed by input
// name. Shown values become defaults; secrets are always asked afresh.
func (s *Session) Prompt(ctx context.Context) (map[string]string, error) {
	page, ok := s.Page()
	if !ok {
		return nil, ErrNoPage
	}
	if page.Kind != render.KindForm {
		return nil, ErrUnavailable
	}

	raw := make(map[string]string)
	for _, column := range page.Columns {
		for _, field := range column {
			cfg := InputConfig{
				Message: s.label(field),
				Default: field.Value,
				Help:    field.Placeholder,
			}
			var (
				value string
				err   error
			)
			if field.Type == "password" {
				value, err = s.driver.Password(ctx, cfg)
			} else {
				value, err = s.driver.Input(ctx, cfg)
			}
			if err != nil {
				return nil, err
			}
			raw[field.Input] = value
		}
	}
	for _, hidden := range page.Hidden {
		raw[hidden.Name] = hidden.Value
	}
	return raw, nil
}

func (s *Session) label(field render.FieldView) string {
	label := strings.TrimSpace(field.Label)
	if field.Required {
		label += " *"
	}
	if field.Invalid {
		label += s.theme.InvalidMarker
	}
	return label
}
