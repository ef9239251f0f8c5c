package router

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/vango-dev/vrouter/internal/poll"
	"github.com/vango-dev/vrouter/pkg/routepath"
)

// Backend stores the URL of the current route. Implementations live in
// package history.
type Backend interface {
	// Location returns the current URL, base included.
	Location() string

	PushURL(url string) error
	ReplaceURL(url string) error

	// Go moves n entries through the history. The location moved to is
	// delivered to listeners.
	Go(n int)

	// Listen registers fn for locations the backend moves to on its own,
	// through Go or a remote peer. The returned function removes fn.
	Listen(fn func(url string)) (stop func())
}

// ScrollBehavior runs after a navigation commits and the view updated.
// popState is true when the backend initiated the navigation.
type ScrollBehavior func(to, from *Route, popState bool)

// EventKind identifies a navigation lifecycle event.
type EventKind int

const (
	EventStarted EventKind = iota
	EventCompleted
	EventAborted
	EventRedirected
	EventDuplicated
	EventSuperseded
	EventFailed
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventCompleted:
		return "completed"
	case EventAborted:
		return "aborted"
	case EventRedirected:
		return "redirected"
	case EventDuplicated:
		return "duplicated"
	case EventSuperseded:
		return "superseded"
	case EventFailed:
		return "failed"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

func eventFor(k Kind) EventKind {
	switch k {
	case KindRedirected:
		return EventRedirected
	case KindDuplicated:
		return EventDuplicated
	case KindSuperseded:
		return EventSuperseded
	case KindError:
		return EventFailed
	}
	return EventAborted
}

// Event reports one step of a navigation's lifecycle. Every navigation
// emits EventStarted and then exactly one terminal event.
type Event struct {
	Kind EventKind

	// Seq numbers navigations in the order they started.
	Seq  uint64
	From *Route
	To   *Route

	// Err is set on every terminal event except EventCompleted.
	Err *NavigationError

	// Duration is measured from EventStarted; zero on EventStarted.
	Duration time.Duration
	At       time.Time
}

// Observer receives navigation events synchronously on the navigating
// goroutine.
type Observer func(Event)

// ControllerOptions configures a Controller.
type ControllerOptions struct {
	// Base is prepended to every URL written to the backend.
	Base string

	Logger *slog.Logger

	ScrollBehavior ScrollBehavior

	// AfterRender schedules fn once the view reflects the committed route.
	// The default runs fn on a new goroutine.
	AfterRender func(fn func())
}

// Controller runs navigations: it matches the target, runs the guard
// pipeline and commits the route, keeping the backend URL in step.
type Controller struct {
	matcher     *Matcher
	backend     Backend
	base        string
	logger      *slog.Logger
	scroll      ScrollBehavior
	afterRender func(fn func())

	seq     atomic.Uint64
	started atomic.Bool

	beforeHooks  hooks[Guard]
	resolveHooks hooks[Guard]
	afterHooks   hooks[AfterHook]
	observers    hooks[Observer]
	errorCbs     hooks[func(error)]

	mu            sync.Mutex
	ctx           context.Context
	current       *Route
	pending       *transition
	ready         bool
	readyCbs      []func(*Route)
	readyErrorCbs []func(error)
	listener      func(*Route)
	stopListen    func()
}

// transition is one in-flight navigation.
type transition struct {
	seq    uint64
	to     *Route
	from   *Route
	ctx    context.Context
	cancel context.CancelFunc
	start  time.Time
}

// NewController returns a controller over matcher writing URLs to backend.
// The current route is Start until the first navigation commits.
func NewController(matcher *Matcher, backend Backend, opts ControllerOptions) *Controller {
	c := &Controller{
		matcher:     matcher,
		backend:     backend,
		base:        routepath.NormalizeBase(opts.Base),
		logger:      opts.Logger,
		scroll:      opts.ScrollBehavior,
		afterRender: opts.AfterRender,
		ctx:         context.Background(),
		current:     Start,
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.afterRender == nil {
		c.afterRender = func(fn func()) { go fn() }
	}
	return c
}

// Current returns the committed route.
func (c *Controller) Current() *Route {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Pending returns the target of the navigation in flight, or nil.
func (c *Controller) Pending() *Route {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return nil
	}
	return c.pending.to
}

// Base returns the normalized base.
func (c *Controller) Base() string { return c.base }

// Matcher returns the controller's matcher.
func (c *Controller) Matcher() *Matcher { return c.matcher }

// Listen sets the function called with every committed route. It replaces
// any earlier listener.
func (c *Controller) Listen(fn func(*Route)) {
	c.mu.Lock()
	c.listener = fn
	c.mu.Unlock()
}

// BeforeEach registers a guard run before per-route guards.
func (c *Controller) BeforeEach(g Guard) (remove func()) { return c.beforeHooks.add(g) }

// BeforeResolve registers a guard run after enter guards and async
// components resolved.
func (c *Controller) BeforeResolve(g Guard) (remove func()) { return c.resolveHooks.add(g) }

// AfterEach registers a hook called after every committed navigation.
func (c *Controller) AfterEach(h AfterHook) (remove func()) { return c.afterHooks.add(h) }

// Observe registers an observer of navigation events.
func (c *Controller) Observe(o Observer) (remove func()) { return c.observers.add(o) }

// OnError registers a callback for navigations that failed with KindError.
// With no callback registered such failures are logged.
func (c *Controller) OnError(cb func(error)) (remove func()) { return c.errorCbs.add(cb) }

// OnReady calls cb once the initial navigation commits, or errCb if it
// fails first. When ready already, cb runs immediately.
func (c *Controller) OnReady(cb func(*Route), errCb func(error)) {
	c.mu.Lock()
	if c.ready {
		current := c.current
		c.mu.Unlock()
		if cb != nil {
			cb(current)
		}
		return
	}
	if cb != nil {
		c.readyCbs = append(c.readyCbs, cb)
	}
	if errCb != nil {
		c.readyErrorCbs = append(c.readyErrorCbs, errCb)
	}
	c.mu.Unlock()
}

// Ready reports whether a navigation has committed.
func (c *Controller) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

// TransitionTo navigates to loc without writing the backend URL. Exactly
// one of onComplete and onAbort is called before TransitionTo returns,
// unless a guard redirects, in which case onAbort receives the redirect
// failure and the redirected navigation runs with no callbacks.
func (c *Controller) TransitionTo(ctx context.Context, loc Location, onComplete func(*Route), onAbort func(error)) {
	route := c.matcher.Match(loc, c.Current())
	c.confirmTransition(ctx, route, func(route *Route) {
		if onComplete != nil {
			onComplete(route)
		}
		c.EnsureURL(false)
		c.markReady(route)
	}, func(err *NavigationError) {
		if onAbort != nil {
			onAbort(err)
		}
		if err.Kind == KindError || err.Kind == KindDuplicated {
			c.markReadyError(err)
		}
	})
}

// Push navigates to loc and adds a history entry for it.
func (c *Controller) Push(ctx context.Context, loc Location, onComplete func(*Route), onAbort func(error)) {
	c.navigate(ctx, loc, true, onComplete, onAbort)
}

// Replace navigates to loc and overwrites the current history entry.
func (c *Controller) Replace(ctx context.Context, loc Location, onComplete func(*Route), onAbort func(error)) {
	c.navigate(ctx, loc, false, onComplete, onAbort)
}

func (c *Controller) navigate(ctx context.Context, loc Location, push bool, onComplete func(*Route), onAbort func(error)) {
	from := c.Current()
	c.TransitionTo(ctx, loc, func(route *Route) {
		c.writeURL(route, push)
		c.handleScroll(route, from, false)
		if onComplete != nil {
			onComplete(route)
		}
	}, onAbort)
}

// Go moves n entries through the backend history.
func (c *Controller) Go(n int) {
	c.backend.Go(n)
}

// CurrentLocation returns the backend URL with the base removed.
func (c *Controller) CurrentLocation() string {
	return routepath.StripBase(c.backend.Location(), c.base)
}

// EnsureURL writes the current route's URL to the backend when the two
// disagree.
func (c *Controller) EnsureURL(push bool) {
	current := c.Current()
	if c.CurrentLocation() != current.FullPath {
		c.writeURL(current, push)
	}
}

// Start navigates to the backend's current location and follows the
// locations the backend moves to afterwards. It returns the failure of the
// initial navigation when it failed with KindError. Calling Start again
// does nothing.
func (c *Controller) Start(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return nil
	}
	c.mu.Lock()
	c.ctx = ctx
	c.mu.Unlock()

	initLocation := c.CurrentLocation()
	stop := c.backend.Listen(func(url string) {
		c.handlePop(ctx, url, initLocation)
	})
	c.mu.Lock()
	c.stopListen = stop
	c.mu.Unlock()

	var startErr error
	c.TransitionTo(ctx, Path(initLocation), nil, func(err error) {
		if IsNavigationFailure(err, KindError) {
			startErr = err
		}
	})
	return startErr
}

// Stop detaches from the backend and cancels the navigation in flight.
func (c *Controller) Stop() {
	c.mu.Lock()
	stop := c.stopListen
	c.stopListen = nil
	if c.pending != nil {
		c.pending.cancel()
	}
	c.mu.Unlock()
	if stop != nil {
		stop()
	}
}

func (c *Controller) handlePop(ctx context.Context, url, initLocation string) {
	location := routepath.StripBase(url, c.base)
	from := c.Current()
	// Some backends report the initial location once listening starts.
	if from == Start && location == initLocation {
		return
	}
	c.TransitionTo(ctx, Path(location), func(route *Route) {
		c.handleScroll(route, from, true)
	}, nil)
}

func (c *Controller) writeURL(route *Route, push bool) {
	url := routepath.CleanPath(c.base + route.FullPath)
	var err error
	if push {
		err = c.backend.PushURL(url)
	} else {
		err = c.backend.ReplaceURL(url)
	}
	if err != nil {
		c.logger.Warn("backend rejected URL", "url", url, "push", push, "error", err)
	}
}

func (c *Controller) handleScroll(to, from *Route, popState bool) {
	if c.scroll == nil {
		return
	}
	c.afterRender(func() { c.scroll(to, from, popState) })
}

// notifyRoute tells the listener and after hooks that route replaced prev.
// The caller has already committed route under c.mu.
func (c *Controller) notifyRoute(route, prev *Route, listener func(*Route)) {
	if listener != nil {
		listener(route)
	}
	for _, h := range c.afterHooks.snapshot() {
		h(route, prev)
	}
}

func (c *Controller) markReady(route *Route) {
	c.mu.Lock()
	if c.ready {
		c.mu.Unlock()
		return
	}
	c.ready = true
	cbs := c.readyCbs
	c.readyCbs, c.readyErrorCbs = nil, nil
	c.mu.Unlock()

	for _, cb := range cbs {
		cb(route)
	}
}

func (c *Controller) markReadyError(err error) {
	c.mu.Lock()
	if c.ready {
		c.mu.Unlock()
		return
	}
	c.ready = true
	cbs := c.readyErrorCbs
	c.readyCbs, c.readyErrorCbs = nil, nil
	c.mu.Unlock()

	for _, cb := range cbs {
		cb(err)
	}
}

func (c *Controller) emit(e Event) {
	for _, o := range c.observers.snapshot() {
		o(e)
	}
}

// confirmTransition runs the guard pipeline for route. Stale navigations
// end as KindSuperseded without touching shared state.
func (c *Controller) confirmTransition(ctx context.Context, route *Route, onComplete func(*Route), onAbort func(*NavigationError)) {
	start := time.Now()
	tctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Sequence, current and pending change together so that a later
	// sequence number always belongs to the later pending transition.
	c.mu.Lock()
	seq := c.seq.Inc()
	current := c.current
	duplicate := IsSameRoute(route, current) && len(route.Matched) == len(current.Matched)
	t := &transition{seq: seq, to: route, from: current, ctx: tctx, cancel: cancel, start: start}
	if !duplicate {
		if c.pending != nil {
			c.pending.cancel()
		}
		c.pending = t
	}
	c.mu.Unlock()

	c.emit(Event{Kind: EventStarted, Seq: seq, From: current, To: route, At: start})

	if duplicate {
		c.EnsureURL(false)
		c.fail(nil, seq, start, newNavigationError(KindDuplicated, current, route, nil), onAbort)
		return
	}

	updated, deactivated, activated := resolveQueue(current.Matched, route.Matched)

	abort := func(err *NavigationError) { c.fail(t, seq, start, err, onAbort) }

	queue := leaveGuards(deactivated)
	queue = append(queue, c.beforeHooks.snapshot()...)
	queue = append(queue, updateGuards(updated)...)
	queue = append(queue, beforeEnterGuards(activated)...)
	queue = append(queue, resolveComponents(activated))
	if !c.runQueue(ctx, t, queue, abort) {
		return
	}

	var postEnter []func()
	valid := func() bool { return c.Current() == route }
	queue = c.enterGuards(activated, &postEnter, valid)
	queue = append(queue, c.resolveHooks.snapshot()...)
	if !c.runQueue(ctx, t, queue, abort) {
		return
	}

	c.mu.Lock()
	if c.pending != t {
		c.mu.Unlock()
		abort(newNavigationError(KindSuperseded, current, route, nil))
		return
	}
	c.pending = nil
	prev := c.current
	c.current = route
	listener := c.listener
	c.mu.Unlock()

	c.notifyRoute(route, prev, listener)
	onComplete(route)
	c.emit(Event{Kind: EventCompleted, Seq: seq, From: current, To: route, Duration: time.Since(start), At: time.Now()})

	if len(postEnter) > 0 {
		c.afterRender(func() {
			for _, cb := range postEnter {
				cb()
			}
		})
	}
}

// runQueue runs steps in order and reports whether all of them let the
// navigation proceed. Any other outcome has been passed to abort.
func (c *Controller) runQueue(ctx context.Context, t *transition, steps []Guard, abort func(*NavigationError)) bool {
	for _, step := range steps {
		if !c.isPending(t) {
			abort(newNavigationError(KindSuperseded, t.from, t.to, nil))
			return false
		}
		if err := ctx.Err(); err != nil {
			c.EnsureURL(true)
			abort(newNavigationError(KindAborted, t.from, t.to, err))
			return false
		}

		v := c.runStep(t, step)

		if !c.isPending(t) {
			abort(newNavigationError(KindSuperseded, t.from, t.to, nil))
			return false
		}
		switch v.kind {
		case verdictAbort:
			c.EnsureURL(true)
			abort(newNavigationError(KindAborted, t.from, t.to, nil))
			return false
		case verdictFail:
			c.EnsureURL(true)
			abort(newNavigationError(KindError, t.from, t.to, v.err))
			return false
		case verdictNavigate:
			nav := newNavigationError(KindRedirected, t.from, t.to, nil)
			to := v.to
			nav.Redirect = &to
			abort(nav)
			if to.Replace {
				c.Replace(ctx, to, nil, nil)
			} else {
				c.Push(ctx, to, nil, nil)
			}
			return false
		}
	}
	return true
}

// runStep calls step, converting a panic into a failure.
func (c *Controller) runStep(t *transition, step Guard) (v Verdict) {
	defer func() {
		if r := recover(); r != nil {
			err, ok := r.(error)
			if !ok {
				err = fmt.Errorf("%v", r)
			}
			v = Fail(fmt.Errorf("navigation guard panicked: %w", err))
		}
	}()
	return step(t.ctx, t.to, t.from)
}

func (c *Controller) isPending(t *transition) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending == t
}

// fail ends a navigation that did not commit. t is nil for navigations
// that never became pending.
func (c *Controller) fail(t *transition, seq uint64, start time.Time, err *NavigationError, onAbort func(*NavigationError)) {
	if t != nil {
		c.mu.Lock()
		if c.pending == t {
			c.pending = nil
		}
		c.mu.Unlock()
	}

	if err.Kind == KindError {
		if cbs := c.errorCbs.snapshot(); len(cbs) > 0 {
			for _, cb := range cbs {
				cb(err)
			}
		} else {
			c.logger.Error("uncaught error during route navigation",
				"from", err.From.FullPath, "to", err.To.FullPath, "error", err.Err)
		}
	}

	c.emit(Event{Kind: eventFor(err.Kind), Seq: seq, From: err.From, To: err.To, Err: err, Duration: time.Since(start), At: time.Now()})
	if onAbort != nil {
		onAbort(err)
	}
}

// awaitInstance calls fn with the slot's instance once it is registered,
// giving up when valid turns false or the controller's context ends.
func (c *Controller) awaitInstance(record *RouteRecord, slot string, fn func(instance any), valid func() bool) {
	c.mu.Lock()
	ctx := c.ctx
	c.mu.Unlock()

	poll.Until(ctx, poll.DefaultInterval, func() bool {
		inst, ok := record.Instance(slot)
		if ok {
			fn(inst)
		}
		return ok
	}, valid)
}
