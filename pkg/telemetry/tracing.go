package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vrouter/pkg/router"
)

const defaultTracerName = "vrouter"

// TracingConfig configures navigation tracing.
type TracingConfig struct {
	// TracerName is the name of the tracer (default: "vrouter").
	TracerName string

	// Provider supplies the tracer. Default: the global provider.
	Provider trace.TracerProvider

	// Filter decides which navigations are traced by their target route.
	// If nil, all navigations are traced.
	Filter func(to *router.Route) bool

	// AttributeExtractor adds attributes for the target route.
	AttributeExtractor func(to *router.Route) []attribute.KeyValue
}

// TracingOption configures navigation tracing.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(p trace.TracerProvider) TracingOption {
	return func(c *TracingConfig) {
		c.Provider = p
	}
}

// WithNavigationFilter sets a filter on the navigation target.
func WithNavigationFilter(filter func(to *router.Route) bool) TracingOption {
	return func(c *TracingConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(to *router.Route) []attribute.KeyValue) TracingOption {
	return func(c *TracingConfig) {
		c.AttributeExtractor = extractor
	}
}

// Tracing turns each navigation into a span that starts with the
// navigation and ends with its outcome.
type Tracing struct {
	config TracingConfig
	tracer trace.Tracer

	mu        sync.Mutex
	observers uint64
	spans     map[spanKey]trace.Span
}

// spanKey tells apart navigations of different routers, whose sequence
// numbers overlap.
type spanKey struct {
	observer uint64
	seq      uint64
}

// NewTracing creates a navigation tracer.
//
// Configure the global provider before creating it, or pass one with
// WithTracerProvider:
//
//	otel.SetTracerProvider(tp)
//	r.Observe(telemetry.NewTracing().Observer())
func NewTracing(opts ...TracingOption) *Tracing {
	config := TracingConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Provider == nil {
		config.Provider = otel.GetTracerProvider()
	}
	return &Tracing{
		config: config,
		tracer: config.Provider.Tracer(config.TracerName),
		spans:  make(map[spanKey]trace.Span),
	}
}

// Observer returns a router observer feeding t. Register a separate
// observer with each router.
func (t *Tracing) Observer() router.Observer {
	t.mu.Lock()
	t.observers++
	id := t.observers
	t.mu.Unlock()

	return func(e router.Event) {
		key := spanKey{observer: id, seq: e.Seq}
		if e.Kind == router.EventStarted {
			t.start(key, e)
			return
		}
		t.end(key, e)
	}
}

// InFlight reports the number of open navigation spans.
func (t *Tracing) InFlight() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.spans)
}

func (t *Tracing) start(key spanKey, e router.Event) {
	if t.config.Filter != nil && !t.config.Filter(e.To) {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("vrouter.route", RouteLabel(e.To)),
		attribute.Int64("vrouter.seq", int64(e.Seq)),
	}
	if e.To != nil {
		attrs = append(attrs, attribute.String("vrouter.to", e.To.FullPath))
		if e.To.Name != "" {
			attrs = append(attrs, attribute.String("vrouter.name", e.To.Name))
		}
	}
	if e.From != nil {
		attrs = append(attrs, attribute.String("vrouter.from", e.From.FullPath))
	}
	if t.config.AttributeExtractor != nil {
		attrs = append(attrs, t.config.AttributeExtractor(e.To)...)
	}

	_, span := t.tracer.Start(
		context.Background(),
		"navigate "+RouteLabel(e.To),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
		trace.WithTimestamp(e.At),
	)

	t.mu.Lock()
	t.spans[key] = span
	t.mu.Unlock()
}

func (t *Tracing) end(key spanKey, e router.Event) {
	t.mu.Lock()
	span, ok := t.spans[key]
	delete(t.spans, key)
	t.mu.Unlock()
	if !ok {
		return
	}

	span.SetAttributes(
		attribute.String("vrouter.outcome", e.Kind.String()),
		attribute.Int64("vrouter.duration_ms", e.Duration.Milliseconds()),
	)
	switch e.Kind {
	case router.EventCompleted:
		span.SetStatus(codes.Ok, "")
	case router.EventFailed:
		span.RecordError(e.Err)
		span.SetStatus(codes.Error, e.Err.Error())
	case router.EventRedirected:
		if e.Err != nil && e.Err.Redirect != nil {
			span.SetAttributes(attribute.String("vrouter.redirect", e.Err.Redirect.Path))
		}
	}
	span.End(trace.WithTimestamp(e.At))
}
