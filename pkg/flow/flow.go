package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/goliatone/go-formflow/pkg/loader"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/validation"
)

// DefaultSuccessPath is the listing route flows navigate to on success.
const DefaultSuccessPath = "/"

// Config is the per-entity variation point: which fields, which rules, how
// to build the entity, and which API call to make.
type Config[T any] struct {
	Form model.FormModel
	// Rules run in order. When nil they are compiled from Form.Rules.
	Rules []validation.Rule
	// Build turns validated fields into the entity sent to the API.
	Build func(fields validation.Fields) (T, error)
	// Submit performs the API call.
	Submit func(ctx context.Context, entity T) (T, error)
	// Encode turns a loaded entity into field values for a populated form.
	Encode func(entity T) map[string]string
	// SuccessPath is where the flow navigates after a successful submit.
	SuccessPath string
	// AfterSuccess runs after the API call succeeded and before navigation.
	AfterSuccess func(ctx context.Context, result T) error
	// PlaceholderAfter delays the loading placeholder of StartDeferred.
	PlaceholderAfter time.Duration
}

// Flow is one form's lifecycle for one page view.
type Flow[T any] struct {
	cfg   Config[T]
	rules []validation.Rule
	opts  options

	mu       sync.Mutex
	state    State
	values   map[string]string
	inFlight    bool
	closed      bool
	unavailable bool

	// renderMu keeps renders of one instance strictly ordered.
	renderMu sync.Mutex
}

var _ Submitter = (*Flow[struct{}])(nil)

// New validates cfg and returns a flow ready to Start.
func New[T any](cfg Config[T], opts ...Option) (*Flow[T], error) {
	if len(cfg.Form.Fields) == 0 {
		return nil, fmt.Errorf("%w: form %q declares no fields", ErrInvalidConfig, cfg.Form.ID)
	}
	if cfg.Build == nil {
		return nil, fmt.Errorf("%w: form %q has no Build function", ErrInvalidConfig, cfg.Form.ID)
	}
	if cfg.Submit == nil {
		return nil, fmt.Errorf("%w: form %q has no Submit function", ErrInvalidConfig, cfg.Form.ID)
	}
	if cfg.SuccessPath == "" {
		cfg.SuccessPath = DefaultSuccessPath
	}

	rules := cfg.Rules
	if rules == nil {
		compiled, err := validation.CompileAll(cfg.Form)
		if err != nil {
			return nil, fmt.Errorf("flow: form %q: %w", cfg.Form.ID, err)
		}
		rules = compiled
	}

	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return &Flow[T]{
		cfg:   cfg,
		rules: rules,
		opts:  o,
	}, nil
}

// FormID returns the form identifier.
func (f *Flow[T]) FormID() string {
	return f.cfg.Form.ID
}

// Form returns the form model.
func (f *Flow[T]) Form() model.FormModel {
	return f.cfg.Form
}

// State returns a snapshot of the current error state.
func (f *Flow[T]) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Closed reports whether the flow already navigated away.
func (f *Flow[T]) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Unavailable reports whether the entity behind the form failed to load.
func (f *Flow[T]) Unavailable() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.unavailable
}

// Start performs the first render: empty fields, no error.
func (f *Flow[T]) Start(ctx context.Context, view View) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrFlowClosed
	}
	f.state = State{}
	f.values = nil
	f.mu.Unlock()

	return f.render(ctx, view, PageForm)
}

// StartDeferred renders a loading placeholder, waits for the entity, then
// renders the populated form. A failed load renders the unavailable page,
// carrying the error's user message when it has one, and the flow refuses
// further submissions.
func (f *Flow[T]) StartDeferred(ctx context.Context, view View, pending *loader.Deferred[T]) error {
	if pending == nil {
		return f.Start(ctx, view)
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrFlowClosed
	}
	f.state = State{}
	f.values = nil
	f.unavailable = false
	f.mu.Unlock()

	return loader.Until(ctx, pending, loader.Handlers[T]{
		Placeholder: func(ctx context.Context) error {
			return f.render(ctx, view, PageLoading)
		},
		Ready: func(ctx context.Context, entity T) error {
			var values map[string]string
			if f.cfg.Encode != nil {
				values = f.cfg.Encode(entity)
			}
			f.mu.Lock()
			f.values = values
			f.mu.Unlock()
			return f.render(ctx, view, PageForm)
		},
		Failed: func(ctx context.Context, err error) error {
			f.opts.logger.Warn("entity load failed",
				slog.String("form", f.cfg.Form.ID),
				slog.String("id", pending.ID()),
				slog.Any("error", err),
			)
			f.mu.Lock()
			f.state = State{Message: userMessageOf(err)}
			f.unavailable = true
			f.mu.Unlock()
			return f.render(ctx, view, PageUnavailable)
		},
	}, f.cfg.PlaceholderAfter)
}

// HandleSubmit runs one submission. The returned error is reserved for
// guard refusals (ErrSubmissionInFlight, ErrFlowClosed, ErrUnavailable) and
// collaborator failures; validation failures and API rejections are reported
// through the view and the Outcome.
func (f *Flow[T]) HandleSubmit(ctx context.Context, view View, raw map[string]string) (Outcome, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return OutcomeInvalid, ErrFlowClosed
	}
	if f.unavailable {
		f.mu.Unlock()
		return OutcomeInvalid, ErrUnavailable
	}
	if f.inFlight {
		f.mu.Unlock()
		return OutcomeInvalid, ErrSubmissionInFlight
	}
	f.inFlight = true
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight = false
		f.mu.Unlock()
	}()

	started := f.opts.now()
	outcome, err := f.submit(ctx, view, raw)
	f.observe(outcome, started)
	return outcome, err
}

func (f *Flow[T]) submit(ctx context.Context, view View, raw map[string]string) (Outcome, error) {
	fields := validation.Collect(f.cfg.Form, raw)
	values := fields.Values()

	if result := validation.Run(fields, f.rules...); result.Failed {
		return OutcomeInvalid, f.fail(ctx, view, values, &ValidationError{
			Message: result.Message,
			Invalid: result.Invalid,
		})
	}

	entity, err := f.cfg.Build(fields)
	if err != nil {
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			validationErr = &ValidationError{Message: MessageOf(err)}
		}
		return OutcomeInvalid, f.fail(ctx, view, values, validationErr)
	}

	result, err := f.cfg.Submit(ctx, entity)
	if err != nil {
		return OutcomeRejected, f.fail(ctx, view, values, &SubmissionError{
			Message: MessageOf(err),
			Err:     err,
		})
	}

	f.mu.Lock()
	f.state = State{}
	f.values = nil
	f.closed = true
	f.mu.Unlock()

	if f.cfg.AfterSuccess != nil {
		if err := f.cfg.AfterSuccess(ctx, result); err != nil {
			f.opts.logger.Warn("after success hook failed",
				slog.String("form", f.cfg.Form.ID),
				slog.Any("error", err),
			)
		}
	}

	f.renderMu.Lock()
	defer f.renderMu.Unlock()
	if err := view.Redirect(ctx, f.cfg.SuccessPath); err != nil {
		return OutcomeSucceeded, fmt.Errorf("flow: redirect %q: %w", f.cfg.SuccessPath, err)
	}
	return OutcomeSucceeded, nil
}

func (f *Flow[T]) fail(ctx context.Context, view View, values map[string]string, cause error) error {
	f.mu.Lock()
	f.state = StateOf(cause)
	f.values = values
	f.mu.Unlock()

	f.opts.logger.Debug("submission failed",
		slog.String("form", f.cfg.Form.ID),
		slog.String("message", cause.Error()),
	)
	return f.render(ctx, view, PageForm)
}

func (f *Flow[T]) render(ctx context.Context, view View, kind PageKind) error {
	f.renderMu.Lock()
	defer f.renderMu.Unlock()

	f.mu.Lock()
	page := Page{
		Kind:   kind,
		Form:   f.cfg.Form,
		Values: copyValues(f.values),
		State:  f.state,
	}
	f.mu.Unlock()

	if err := view.Render(ctx, page); err != nil {
		return fmt.Errorf("flow: render %q: %w", f.cfg.Form.ID, err)
	}
	return nil
}

func (f *Flow[T]) observe(outcome Outcome, started time.Time) {
	elapsed := f.opts.now().Sub(started)
	f.opts.logger.Debug("submission handled",
		slog.String("form", f.cfg.Form.ID),
		slog.String("outcome", outcome.String()),
		slog.Duration("duration", elapsed),
	)
	if f.opts.observer != nil {
		f.opts.observer.ObserveSubmission(f.cfg.Form.ID, outcome, elapsed.Seconds())
	}
}

func copyValues(values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for name, value := range values {
		out[name] = value
	}
	return out
}
