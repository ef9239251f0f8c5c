package router

import (
	"context"
	"log/slog"

	"github.com/vango-dev/vrouter/pkg/history"
	"github.com/vango-dev/vrouter/pkg/query"
	"github.com/vango-dev/vrouter/pkg/routepath"
)

// Mode selects how hrefs are rendered.
type Mode int

const (
	// ModeHistory renders hrefs as base + full path.
	ModeHistory Mode = iota

	// ModeHash renders hrefs as base + "#" + full path.
	ModeHash

	// ModeAbstract renders hrefs like ModeHistory. It marks routers whose
	// backend is not a URL bar.
	ModeAbstract
)

func (m Mode) String() string {
	switch m {
	case ModeHash:
		return "hash"
	case ModeAbstract:
		return "abstract"
	}
	return "history"
}

// ParseMode returns the mode named s. Unknown names give ModeHistory.
func ParseMode(s string) Mode {
	switch s {
	case "hash":
		return ModeHash
	case "abstract":
		return ModeAbstract
	}
	return ModeHistory
}

// Option configures a Router.
type Option func(*routerConfig)

type routerConfig struct {
	backend     Backend
	base        string
	mode        Mode
	logger      *slog.Logger
	parse       query.Parser
	stringify   query.Stringifier
	scroll      ScrollBehavior
	afterRender func(fn func())
}

// WithBackend sets the history backend. Without one the router keeps its
// history in memory.
func WithBackend(b Backend) Option {
	return func(c *routerConfig) { c.backend = b }
}

// WithBase sets the base prepended to every URL.
func WithBase(base string) Option {
	return func(c *routerConfig) { c.base = base }
}

// WithMode sets the href rendering mode.
func WithMode(m Mode) Option {
	return func(c *routerConfig) { c.mode = m }
}

// WithLogger sets the logger for configuration warnings and uncaught
// navigation errors.
func WithLogger(l *slog.Logger) Option {
	return func(c *routerConfig) { c.logger = l }
}

// WithParseQuery replaces the query parser.
func WithParseQuery(p query.Parser) Option {
	return func(c *routerConfig) { c.parse = p }
}

// WithStringifyQuery replaces the query serializer.
func WithStringifyQuery(s query.Stringifier) Option {
	return func(c *routerConfig) { c.stringify = s }
}

// WithScrollBehavior sets the callback run after each committed
// navigation.
func WithScrollBehavior(fn ScrollBehavior) Option {
	return func(c *routerConfig) { c.scroll = fn }
}

// WithAfterRender sets how post-commit work waits for the view.
func WithAfterRender(fn func(fn func())) Option {
	return func(c *routerConfig) { c.afterRender = fn }
}

// Resolved is the result of Router.Resolve.
type Resolved struct {
	Location Location
	Route    *Route
	Href     string
}

// Router ties a route table, a matcher and a navigation controller
// together.
type Router struct {
	table      *Table
	matcher    *Matcher
	controller *Controller
	mode       Mode
	logger     *slog.Logger
}

// New builds a router over routes.
func New(routes []RouteConfig, opts ...Option) *Router {
	cfg := routerConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.backend == nil {
		cfg.backend = history.NewMemory("")
		if cfg.mode == ModeHistory {
			cfg.mode = ModeAbstract
		}
	}

	logger := cfg.logger.With("component", "router")
	table := NewTable(routes, logger)
	matcher := NewMatcher(table, MatcherOptions{
		ParseQuery:     cfg.parse,
		StringifyQuery: cfg.stringify,
		Logger:         logger,
	})
	controller := NewController(matcher, cfg.backend, ControllerOptions{
		Base:           cfg.base,
		Logger:         logger,
		ScrollBehavior: cfg.scroll,
		AfterRender:    cfg.afterRender,
	})
	return &Router{
		table:      table,
		matcher:    matcher,
		controller: controller,
		mode:       cfg.mode,
		logger:     logger,
	}
}

// Table returns the router's route table.
func (r *Router) Table() *Table { return r.table }

// Controller returns the router's navigation controller.
func (r *Router) Controller() *Controller { return r.controller }

// Mode returns the href rendering mode.
func (r *Router) Mode() Mode { return r.mode }

// CurrentRoute returns the committed route.
func (r *Router) CurrentRoute() *Route { return r.controller.Current() }

// Match resolves raw relative to current, or to the current route when
// current is nil.
func (r *Router) Match(raw Location, current *Route) *Route {
	if current == nil {
		current = r.controller.Current()
	}
	return r.matcher.Match(raw, current)
}

// Resolve normalizes to, matches it and renders its href. A redirected
// route's href points at the location asked for.
func (r *Router) Resolve(to Location, current *Route, appendPath bool) Resolved {
	if current == nil {
		current = r.controller.Current()
	}
	loc := r.matcher.normalize(to, current, appendPath)
	route := r.matcher.Match(loc, current)
	full := route.RedirectedFrom
	if full == "" {
		full = route.FullPath
	}
	return Resolved{
		Location: loc,
		Route:    route,
		Href:     routepath.JoinHref(r.controller.Base(), full, r.mode == ModeHash),
	}
}

// AddRoutes appends routes to the table. Once a navigation has committed,
// the current location is navigated to again so new routes take effect.
func (r *Router) AddRoutes(ctx context.Context, routes []RouteConfig) {
	r.table.Append(routes)
	r.refresh(ctx)
}

// AddChildRoutes appends routes under the route named parentName. It
// reports false when no such route exists.
func (r *Router) AddChildRoutes(ctx context.Context, parentName string, routes []RouteConfig) bool {
	if !r.table.AppendTo(parentName, routes) {
		return false
	}
	r.refresh(ctx)
	return true
}

func (r *Router) refresh(ctx context.Context) {
	if r.controller.Current() != Start {
		r.controller.TransitionTo(ctx, Path(r.controller.CurrentLocation()), nil, nil)
	}
}

// BeforeEach registers a global before guard.
func (r *Router) BeforeEach(g Guard) (remove func()) { return r.controller.BeforeEach(g) }

// BeforeResolve registers a global resolve guard.
func (r *Router) BeforeResolve(g Guard) (remove func()) { return r.controller.BeforeResolve(g) }

// AfterEach registers a global after hook.
func (r *Router) AfterEach(h AfterHook) (remove func()) { return r.controller.AfterEach(h) }

// OnReady calls cb once the initial navigation commits or errCb if it
// fails.
func (r *Router) OnReady(cb func(*Route), errCb func(error)) { r.controller.OnReady(cb, errCb) }

// OnError registers a callback for navigation errors.
func (r *Router) OnError(cb func(error)) (remove func()) { return r.controller.OnError(cb) }

// Observe registers a navigation event observer.
func (r *Router) Observe(o Observer) (remove func()) { return r.controller.Observe(o) }

// Listen sets the function called with every committed route.
func (r *Router) Listen(fn func(*Route)) { r.controller.Listen(fn) }

// Start performs the initial navigation to the backend's location.
func (r *Router) Start(ctx context.Context) error { return r.controller.Start(ctx) }

// Stop detaches the router from its backend.
func (r *Router) Stop() { r.controller.Stop() }

// Push navigates to to and adds a history entry. It returns the committed
// route, or the *NavigationError explaining why nothing committed. When a
// guard redirected, the redirected navigation has already run.
func (r *Router) Push(ctx context.Context, to Location) (*Route, error) {
	return r.await(ctx, to, r.controller.Push)
}

// Replace navigates to to, overwriting the current history entry.
func (r *Router) Replace(ctx context.Context, to Location) (*Route, error) {
	return r.await(ctx, to, r.controller.Replace)
}

func (r *Router) await(ctx context.Context, to Location, nav func(context.Context, Location, func(*Route), func(error))) (*Route, error) {
	var (
		route *Route
		err   error
	)
	nav(ctx, to, func(rt *Route) { route = rt }, func(e error) { err = e })
	return route, err
}

// Go moves n entries through the history.
func (r *Router) Go(n int) { r.controller.Go(n) }

// Back moves one entry back.
func (r *Router) Back() { r.controller.Go(-1) }

// Forward moves one entry forward.
func (r *Router) Forward() { r.controller.Go(1) }

// MatchedComponents returns the components of every record to matches,
// or of the current route when to is nil.
func (r *Router) MatchedComponents(to *Location) []*Component {
	route := r.controller.Current()
	if to != nil {
		route = r.Resolve(*to, nil, false).Route
	}
	return route.Components()
}
