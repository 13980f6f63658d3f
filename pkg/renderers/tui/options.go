package tui

import (
	"github.com/goliatone/go-formflow/pkg/render"
)

// Theme captures optional formatting hints the driver can apply when printing
// messages. Keep minimal to avoid coupling session logic to ANSI specifics.
type Theme struct {
	InfoPrefix    string
	ErrorPrefix   string
	InvalidMarker string
}

// DefaultTheme is used when no theme is configured.
func DefaultTheme() Theme {
	return Theme{
		InfoPrefix:    "",
		ErrorPrefix:   "✗ ",
		InvalidMarker: " (!)",
	}
}

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver overrides the prompt driver used by the session.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(s *Session) {
		s.theme = theme
	}
}

// WithRenderOptions sets the options every page is built with.
func WithRenderOptions(opts render.RenderOptions) Option {
	return func(s *Session) {
		s.opts = opts
	}
}

// WithRetryPrompt asks before prompting again after a failed submission.
// Without it the session re-prompts until the flow succeeds or input aborts.
func WithRetryPrompt(enabled bool) Option {
	return func(s *Session) {
		s.confirmRetry = enabled
	}
}
