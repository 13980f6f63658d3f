// Package metrics exposes Prometheus collectors for form submissions, data
// API calls, HTTP requests, and live page views.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/goliatone/go-formflow/pkg/flow"
)

// Config configures the collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "formflow").
	Namespace string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the collectors.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "formflow",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collectors implements flow.Observer and the api call observer.
type Collectors struct {
	submissions        *prometheus.CounterVec
	submissionDuration *prometheus.HistogramVec
	apiCalls           *prometheus.CounterVec
	apiDuration        *prometheus.HistogramVec
	requests           *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	activeViews        prometheus.Gauge
}

var _ flow.Observer = (*Collectors)(nil)

// New registers the collectors.
func New(opts ...Option) *Collectors {
	config := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&config)
		}
	}
	factory := promauto.With(config.Registry)

	return &Collectors{
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "submissions_total",
			Help:        "Form submissions by form and outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"form", "outcome"}),

		submissionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Name:        "submission_duration_seconds",
			Help:        "Time spent handling one submission, API call included",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"form"}),

		apiCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   "api",
			Name:        "calls_total",
			Help:        "Data API calls by operation and status code (0 for transport failures)",
			ConstLabels: config.ConstLabels,
		}, []string{"operation", "status"}),

		apiDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   "api",
			Name:        "call_duration_seconds",
			Help:        "Data API call duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"operation"}),

		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   "http",
			Name:        "requests_total",
			Help:        "HTTP requests by route pattern, method and status code",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "method", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   "http",
			Name:        "request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),

		activeViews: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Name:        "active_views",
			Help:        "Form page views waiting for a submission",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// ObserveSubmission implements flow.Observer.
func (c *Collectors) ObserveSubmission(form string, outcome flow.Outcome, seconds float64) {
	c.submissions.WithLabelValues(form, outcome.String()).Inc()
	c.submissionDuration.WithLabelValues(form).Observe(seconds)
}

// ObserveCall records one data API call.
func (c *Collectors) ObserveCall(operation string, status int, seconds float64) {
	c.apiCalls.WithLabelValues(operation, strconv.Itoa(status)).Inc()
	c.apiDuration.WithLabelValues(operation).Observe(seconds)
}

// ObserveRequest records one HTTP request.
func (c *Collectors) ObserveRequest(route, method string, status int, seconds float64) {
	if route == "" {
		route = "unmatched"
	}
	c.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(route).Observe(seconds)
}

// SetActiveViews reports the number of live page views.
func (c *Collectors) SetActiveViews(n int) {
	c.activeViews.Set(float64(n))
}
