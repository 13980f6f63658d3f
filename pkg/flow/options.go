package flow

import (
	"io"
	"log/slog"
	"time"
)

// Option configures a Flow.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	observer Observer
	now      func() time.Time
}

// WithLogger sets the logger used for submission outcomes.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithObserver registers a submission observer (for example metrics).
func WithObserver(observer Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithClock overrides the clock used to time submissions.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func defaultOptions() options {
	return options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
}
