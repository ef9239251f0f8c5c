package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/vrouter/pkg/router"
)

// MetricsConfig configures the Prometheus collectors.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "vrouter").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for navigation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus collectors.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "vrouter",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the navigation collectors. One Metrics can observe any
// number of routers.
//
// Collectors:
//   - vrouter_navigations_total: terminal navigations by route and outcome
//   - vrouter_navigation_duration_seconds: time from start to outcome
//   - vrouter_navigations_in_flight: navigations started and not yet ended
//   - vrouter_navigation_errors_total: failed navigations by route
type Metrics struct {
	navigations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	inFlight    prometheus.Gauge
	errors      *prometheus.CounterVec
}

// NewMetrics registers the navigation collectors.
//
// Example:
//
//	m := telemetry.NewMetrics(telemetry.WithNamespace("shop"))
//	r.Observe(m.Observer())
//	http.Handle("/metrics", promhttp.Handler())
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		navigations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total number of navigations by route pattern and outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "outcome"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_duration_seconds",
			Help:        "Navigation duration from start to outcome in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route", "outcome"}),

		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_in_flight",
			Help:        "Number of navigations started and not yet ended",
			ConstLabels: config.ConstLabels,
		}),

		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_errors_total",
			Help:        "Total number of navigations that failed with a guard or component error",
			ConstLabels: config.ConstLabels,
		}, []string{"route"}),
	}
}

// Observer returns the router observer feeding m.
func (m *Metrics) Observer() router.Observer {
	return func(e router.Event) {
		if e.Kind == router.EventStarted {
			m.inFlight.Inc()
			return
		}
		m.inFlight.Dec()

		route := RouteLabel(e.To)
		outcome := e.Kind.String()
		m.navigations.WithLabelValues(route, outcome).Inc()
		m.duration.WithLabelValues(route, outcome).Observe(e.Duration.Seconds())
		if e.Kind == router.EventFailed {
			m.errors.WithLabelValues(route).Inc()
		}
	}
}

// RouteLabel names a route by its matched pattern so label values stay
// bounded. Unmatched routes are "none".
func RouteLabel(r *router.Route) string {
	if r == nil {
		return "none"
	}
	leaf := r.Leaf()
	if leaf == nil {
		return "none"
	}
	if leaf.Path == "" {
		return "/"
	}
	return leaf.Path
}
