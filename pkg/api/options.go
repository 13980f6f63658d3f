package api

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// DefaultTimeout bounds each API request.
const DefaultTimeout = 10 * time.Second

const tracerName = "github.com/goliatone/go-formflow/pkg/api"

// Observer receives one sample per API call. Status is zero when the call
// failed before a response arrived.
type Observer interface {
	ObserveCall(operation string, status int, seconds float64)
}

// Option configures a Client.
type Option func(*options)

type options struct {
	timeout   time.Duration
	logger    *slog.Logger
	tracer    trace.TracerProvider
	observer  Observer
	transport http.RoundTripper
	routes    Routes
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTracerProvider sets the provider spans are created from. The global
// provider is used otherwise.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(o *options) {
		if provider != nil {
			o.tracer = provider
		}
	}
}

// WithObserver registers a call observer (for example metrics).
func WithObserver(observer Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithTransport replaces the HTTP transport.
func WithTransport(transport http.RoundTripper) Option {
	return func(o *options) {
		if transport != nil {
			o.transport = transport
		}
	}
}

// WithRoutes replaces the route table derived from the embedded
// description.
func WithRoutes(routes Routes) Option {
	return func(o *options) {
		if len(routes) > 0 {
			o.routes = routes
		}
	}
}

func defaultOptions() options {
	return options{
		timeout: DefaultTimeout,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer:  otel.GetTracerProvider(),
	}
}
