package router

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/vango-dev/vrouter/pkg/history"
)

// syncRender runs post-commit work inline so tests observe it before Push
// returns.
func syncRender(fn func()) { fn() }

func startedRouter(t *testing.T, routes []RouteConfig, opts ...Option) *Router {
	t.Helper()
	r := newTestRouter(routes, opts...)
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	return r
}

func push(t *testing.T, r *Router, to string) (*Route, error) {
	t.Helper()
	return r.Push(context.Background(), Path(to))
}

func TestResolveQueue(t *testing.T) {
	root, a, b, c := &RouteRecord{Path: "/"}, &RouteRecord{Path: "/a"}, &RouteRecord{Path: "/a/b"}, &RouteRecord{Path: "/a/c"}

	updated, deactivated, activated := resolveQueue([]*RouteRecord{root, a, b}, []*RouteRecord{root, a, c})
	if !reflect.DeepEqual(updated, []*RouteRecord{root, a}) {
		t.Errorf("updated = %v", updated)
	}
	if !reflect.DeepEqual(deactivated, []*RouteRecord{b}) {
		t.Errorf("deactivated = %v", deactivated)
	}
	if !reflect.DeepEqual(activated, []*RouteRecord{c}) {
		t.Errorf("activated = %v", activated)
	}

	updated, deactivated, activated = resolveQueue(nil, []*RouteRecord{root})
	if len(updated) != 0 || len(deactivated) != 0 || !reflect.DeepEqual(activated, []*RouteRecord{root}) {
		t.Errorf("from nothing: %v %v %v", updated, deactivated, activated)
	}
}

func TestGuardOrder(t *testing.T) {
	var (
		mu    sync.Mutex
		order []string
	)
	log := func(s string) {
		mu.Lock()
		order = append(order, s)
		mu.Unlock()
	}
	guard := func(name string) ComponentGuard {
		return func(ctx context.Context, to, from *Route, instance any) Verdict {
			log(name + ":" + instance.(string))
			return Continue
		}
	}
	enter := func(name string) EnterGuard {
		return func(ctx context.Context, to, from *Route) Verdict {
			log(name)
			return Continue
		}
	}
	mk := func(name string) *Component {
		return &Component{
			Name:              name,
			BeforeRouteEnter:  []EnterGuard{enter("enter " + name)},
			BeforeRouteUpdate: []ComponentGuard{guard("update " + name)},
			BeforeRouteLeave:  []ComponentGuard{guard("leave " + name)},
		}
	}

	r := startedRouter(t, []RouteConfig{
		{Path: "/root", Component: mk("Root"), Children: []RouteConfig{
			{Path: "a", Component: mk("A"), Children: []RouteConfig{
				{Path: "b", Component: mk("B")},
				{Path: "c", Component: mk("C"), BeforeEnter: func(ctx context.Context, to, from *Route) Verdict {
					log("beforeEnter C")
					return Continue
				}},
			}},
		}},
	}, WithAfterRender(syncRender))

	if _, err := push(t, r, "/root/a/b"); err != nil {
		t.Fatalf("Push(/root/a/b) error: %v", err)
	}
	for _, record := range r.CurrentRoute().Matched {
		record.RegisterInstance(DefaultSlot, record.Path)
	}

	r.BeforeEach(func(ctx context.Context, to, from *Route) Verdict {
		log("beforeEach")
		return Continue
	})
	r.BeforeResolve(func(ctx context.Context, to, from *Route) Verdict {
		log("beforeResolve")
		return Continue
	})
	r.AfterEach(func(to, from *Route) {
		log("afterEach " + from.Path + " -> " + to.Path)
	})

	order = nil
	if _, err := push(t, r, "/root/a/c"); err != nil {
		t.Fatalf("Push(/root/a/c) error: %v", err)
	}

	want := []string{
		"leave B:/root/a/b",
		"beforeEach",
		"update Root:/root",
		"update A:/root/a",
		"beforeEnter C",
		"enter C",
		"beforeResolve",
		"afterEach /root/a/b -> /root/a/c",
	}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order =\n%v\nwant\n%v", order, want)
	}
}

func TestLeaveGuardsInnermostFirst(t *testing.T) {
	var order []string
	leave := func(name string) *Component {
		return &Component{Name: name, BeforeRouteLeave: []ComponentGuard{
			func(ctx context.Context, to, from *Route, instance any) Verdict {
				order = append(order, name)
				return Continue
			},
		}}
	}

	r := startedRouter(t, []RouteConfig{
		{Path: "/p", Component: leave("P"), Children: []RouteConfig{
			{Path: "q", Component: leave("Q")},
		}},
		{Path: "/other", Component: comp("Other")},
	})
	if _, err := push(t, r, "/p/q"); err != nil {
		t.Fatal(err)
	}

	// Guards of unmounted components are skipped.
	if _, err := push(t, r, "/other"); err != nil {
		t.Fatal(err)
	}
	if len(order) != 0 {
		t.Fatalf("leave guards ran without instances: %v", order)
	}

	if _, err := push(t, r, "/p/q"); err != nil {
		t.Fatal(err)
	}
	for _, record := range r.CurrentRoute().Matched {
		record.RegisterInstance(DefaultSlot, struct{}{})
	}
	if _, err := push(t, r, "/other"); err != nil {
		t.Fatal(err)
	}
	if want := []string{"Q", "P"}; !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestAbort(t *testing.T) {
	backend := history.NewMemory("/")
	r := startedRouter(t, []RouteConfig{
		{Path: "/", Component: comp("Home")},
		{Path: "/locked", Component: comp("Locked"), BeforeEnter: func(ctx context.Context, to, from *Route) Verdict {
			return Abort()
		}},
	}, WithBackend(backend))

	errorCalled := false
	r.OnError(func(error) { errorCalled = true })

	route, err := push(t, r, "/locked")
	if route != nil {
		t.Errorf("Push() route = %v, want nil", route)
	}
	if !IsNavigationFailure(err, KindAborted) || !errors.Is(err, ErrNavigationAborted) {
		t.Fatalf("Push() error = %v, want aborted", err)
	}
	if r.CurrentRoute().Path != "/" {
		t.Errorf("current = %q, want /", r.CurrentRoute().Path)
	}
	if backend.Location() != "/" {
		t.Errorf("backend location = %q, want /", backend.Location())
	}
	if errorCalled {
		t.Error("abort reached error callbacks")
	}
	if r.Controller().Pending() != nil {
		t.Error("pending not cleared after abort")
	}
}

func TestFail(t *testing.T) {
	boom := errors.New("boom")
	r := startedRouter(t, []RouteConfig{
		{Path: "/", Component: comp("Home")},
		{Path: "/bad", Component: comp("Bad")},
	})

	var got []error
	remove := r.OnError(func(err error) { got = append(got, err) })
	removeGuard := r.BeforeEach(func(ctx context.Context, to, from *Route) Verdict {
		if to.Path == "/bad" {
			return Fail(boom)
		}
		return Continue
	})

	_, err := push(t, r, "/bad")
	if !IsNavigationFailure(err, KindError) || !errors.Is(err, boom) {
		t.Fatalf("Push() error = %v, want wrapped boom", err)
	}
	if len(got) != 1 || !errors.Is(got[0], boom) {
		t.Errorf("OnError got %v", got)
	}

	remove()
	removeGuard()
	if _, err := push(t, r, "/bad"); err != nil {
		t.Errorf("Push() after removing guard error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("removed error callback still called: %v", got)
	}
}

func TestGuardPanic(t *testing.T) {
	r := startedRouter(t, []RouteConfig{
		{Path: "/", Component: comp("Home")},
		{Path: "/panic", Component: comp("Panic"), BeforeEnter: func(ctx context.Context, to, from *Route) Verdict {
			panic("kaboom")
		}},
	})

	_, err := push(t, r, "/panic")
	if !IsNavigationFailure(err, KindError) {
		t.Fatalf("Push() error = %v, want KindError", err)
	}
	if r.CurrentRoute().Path != "/" {
		t.Errorf("current = %q", r.CurrentRoute().Path)
	}
}

func TestGuardRedirect(t *testing.T) {
	backend := history.NewMemory("/")
	r := startedRouter(t, []RouteConfig{
		{Path: "/", Component: comp("Home")},
		{Path: "/admin", Component: comp("Admin"), Meta: map[string]any{"auth": true}},
		{Path: "/login", Component: comp("Login")},
	}, WithBackend(backend))

	r.BeforeEach(Only(HasMeta("auth"), func(ctx context.Context, to, from *Route) Verdict {
		return Navigate(Location{Path: "/login", Query: to.Query, Replace: true})
	}))

	var events []EventKind
	r.Observe(func(e Event) { events = append(events, e.Kind) })

	_, err := push(t, r, "/admin?next=1")
	if !IsNavigationFailure(err, KindRedirected) {
		t.Fatalf("Push() error = %v, want redirected", err)
	}
	var nav *NavigationError
	errors.As(err, &nav)
	if nav.Redirect == nil || nav.Redirect.Path != "/login" {
		t.Errorf("Redirect = %+v", nav.Redirect)
	}
	if got := r.CurrentRoute().FullPath; got != "/login?next=1" {
		t.Errorf("current = %q, want /login?next=1", got)
	}
	if got := backend.Entries(); !reflect.DeepEqual(got, []string{"/login?next=1"}) {
		t.Errorf("entries = %v, want the redirect to replace the start entry", got)
	}

	want := []EventKind{EventStarted, EventRedirected, EventStarted, EventCompleted}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %v, want %v", events, want)
	}
}

func TestDuplicate(t *testing.T) {
	r := startedRouter(t, []RouteConfig{
		{Path: "/", Component: comp("Home")},
		{Path: "/a", Component: comp("A")},
	})

	errorCalled := false
	r.OnError(func(error) { errorCalled = true })

	if _, err := push(t, r, "/a"); err != nil {
		t.Fatal(err)
	}
	_, err := push(t, r, "/a")
	if !IsNavigationFailure(err, KindDuplicated) || !errors.Is(err, ErrNavigationDuplicated) {
		t.Fatalf("second Push() error = %v, want duplicated", err)
	}
	if errorCalled {
		t.Error("duplicate reached error callbacks")
	}

	if _, err := push(t, r, "/a?x=1"); err != nil {
		t.Errorf("Push() with new query error = %v", err)
	}
}

func TestSupersede(t *testing.T) {
	entered := make(chan struct{})
	canceled := make(chan struct{})

	r := startedRouter(t, []RouteConfig{
		{Path: "/", Component: comp("Home")},
		{Path: "/slow", Component: comp("Slow"), BeforeEnter: func(ctx context.Context, to, from *Route) Verdict {
			close(entered)
			select {
			case <-ctx.Done():
				close(canceled)
			case <-time.After(5 * time.Second):
			}
			return Continue
		}},
		{Path: "/fast", Component: comp("Fast")},
	})

	var committed []string
	r.AfterEach(func(to, from *Route) { committed = append(committed, to.Path) })

	slowErr := make(chan error, 1)
	go func() {
		_, err := r.Push(context.Background(), Path("/slow"))
		slowErr <- err
	}()

	<-entered
	if _, err := push(t, r, "/fast"); err != nil {
		t.Fatalf("Push(/fast) error = %v", err)
	}

	select {
	case err := <-slowErr:
		if !IsNavigationFailure(err, KindSuperseded) {
			t.Errorf("slow Push() error = %v, want superseded", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("slow navigation never finished")
	}
	select {
	case <-canceled:
	default:
		t.Error("slow guard's context was not canceled")
	}

	if r.CurrentRoute().Path != "/fast" {
		t.Errorf("current = %q, want /fast", r.CurrentRoute().Path)
	}
	if !reflect.DeepEqual(committed, []string{"/fast"}) {
		t.Errorf("committed = %v, want only /fast", committed)
	}
}

func TestConcurrentPushLatestCommitWins(t *testing.T) {
	r := startedRouter(t, []RouteConfig{
		{Path: "/", Component: comp("Home")},
		{Path: "/a", Component: comp("A")},
		{Path: "/b", Component: comp("B")},
	})

	var (
		mu        sync.Mutex
		completed = map[uint64]string{}
	)
	r.Observe(func(e Event) {
		if e.Kind != EventCompleted {
			return
		}
		mu.Lock()
		completed[e.Seq] = e.To.Path
		mu.Unlock()
	})

	for i := 0; i < 2000; i++ {
		mu.Lock()
		clear(completed)
		mu.Unlock()

		var wg sync.WaitGroup
		gate := make(chan struct{})
		for _, to := range []string{"/a", "/b"} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-gate
				r.Push(context.Background(), Path(to))
			}()
		}
		close(gate)
		wg.Wait()

		mu.Lock()
		var last uint64
		for seq := range completed {
			last = max(last, seq)
		}
		want := completed[last]
		mu.Unlock()

		if last == 0 {
			continue
		}
		if got := r.CurrentRoute().Path; got != want {
			t.Fatalf("iteration %d: navigation %d to %s completed last, but current is %s", i, last, want, got)
		}
		if r.controller.Pending() != nil {
			t.Fatalf("iteration %d: pending = %v after both pushes returned", i, r.controller.Pending())
		}
	}
}

func TestCallerContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := startedRouter(t, []RouteConfig{
		{Path: "/", Component: comp("Home")},
		{Path: "/a", Component: comp("A"), BeforeEnter: func(_ context.Context, to, from *Route) Verdict {
			cancel()
			return Continue
		}},
	})

	_, err := r.Push(ctx, Path("/a"))
	if !IsNavigationFailure(err, KindAborted) || !errors.Is(err, context.Canceled) {
		t.Fatalf("Push() error = %v, want aborted by context", err)
	}
	if r.CurrentRoute().Path != "/" {
		t.Errorf("current = %q", r.CurrentRoute().Path)
	}
}

func TestAsyncComponents(t *testing.T) {
	var (
		mu    sync.Mutex
		loads int
	)
	loader := func(name string) *Component {
		return &Component{Name: name + "Loader", Load: func(ctx context.Context) (*Component, error) {
			mu.Lock()
			loads++
			mu.Unlock()
			return comp(name), nil
		}}
	}

	r := startedRouter(t, []RouteConfig{
		{Path: "/", Component: comp("Home")},
		{Path: "/lazy", Components: map[string]*Component{
			DefaultSlot: loader("Main"),
			"side":      loader("Side"),
		}},
	})

	route, err := push(t, r, "/lazy")
	if err != nil {
		t.Fatalf("Push() error = %v", err)
	}
	leaf := route.Leaf()
	if leaf.Component(DefaultSlot).Name != "Main" || leaf.Component("side").Name != "Side" {
		t.Errorf("components not replaced: %v", route.Components())
	}
	if loads != 2 {
		t.Errorf("loads = %d, want 2", loads)
	}

	push(t, r, "/")
	push(t, r, "/lazy")
	if loads != 2 {
		t.Errorf("loaders ran again: loads = %d", loads)
	}
}

func TestAsyncComponentError(t *testing.T) {
	loadErr := errors.New("chunk missing")
	r := startedRouter(t, []RouteConfig{
		{Path: "/", Component: comp("Home")},
		{Path: "/broken", Component: &Component{Load: func(ctx context.Context) (*Component, error) {
			return nil, loadErr
		}}},
	})

	_, err := push(t, r, "/broken")
	if !IsNavigationFailure(err, KindError) || !errors.Is(err, loadErr) {
		t.Fatalf("Push() error = %v, want load error", err)
	}
	record, _ := r.Table().Lookup("/broken")
	if !record.Component(DefaultSlot).Lazy() {
		t.Error("failed loader was replaced")
	}
}

func TestEnterCallback(t *testing.T) {
	got := make(chan any, 1)
	r := startedRouter(t, []RouteConfig{
		{Path: "/", Component: comp("Home")},
		{Path: "/e", Component: &Component{Name: "E", BeforeRouteEnter: []EnterGuard{
			func(ctx context.Context, to, from *Route) Verdict {
				return Then(func(instance any) { got <- instance })
			},
		}}},
	})

	route, err := push(t, r, "/e")
	if err != nil {
		t.Fatal(err)
	}
	route.Leaf().RegisterInstance(DefaultSlot, "mounted")

	select {
	case inst := <-got:
		if inst != "mounted" {
			t.Errorf("callback got %v, want mounted", inst)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("enter callback never ran")
	}
}

func TestEnterCallbackDroppedWhenRouteLeft(t *testing.T) {
	called := make(chan struct{}, 1)
	r := startedRouter(t, []RouteConfig{
		{Path: "/", Component: comp("Home")},
		{Path: "/e", Component: &Component{Name: "E", BeforeRouteEnter: []EnterGuard{
			func(ctx context.Context, to, from *Route) Verdict {
				return Then(func(any) { called <- struct{}{} })
			},
		}}},
	})

	route, _ := push(t, r, "/e")
	push(t, r, "/")
	route.Leaf().RegisterInstance(DefaultSlot, "late")

	select {
	case <-called:
		t.Error("callback ran after the route was left")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestOnReady(t *testing.T) {
	r := newTestRouter([]RouteConfig{{Path: "/", Component: comp("Home")}})

	var ready []string
	r.OnReady(func(route *Route) { ready = append(ready, "first "+route.Path) }, nil)
	if err := r.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(ready, []string{"first /"}) {
		t.Fatalf("ready = %v", ready)
	}

	r.OnReady(func(route *Route) { ready = append(ready, "late "+route.Path) }, nil)
	if len(ready) != 2 || ready[1] != "late /" {
		t.Errorf("late OnReady not called immediately: %v", ready)
	}
}

func TestOnReadyError(t *testing.T) {
	boom := errors.New("boom")
	r := newTestRouter([]RouteConfig{
		{Path: "/", Component: comp("Home"), BeforeEnter: func(ctx context.Context, to, from *Route) Verdict {
			return Fail(boom)
		}},
	})
	r.OnError(func(error) {})

	var readyErr error
	readyCalled := false
	r.OnReady(func(*Route) { readyCalled = true }, func(err error) { readyErr = err })

	err := r.Start(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("Start() error = %v, want boom", err)
	}
	if !errors.Is(readyErr, boom) {
		t.Errorf("ready error callback got %v", readyErr)
	}
	if readyCalled {
		t.Error("ready callback called on failure")
	}
	if r.CurrentRoute() != Start {
		t.Error("current route moved off Start")
	}
}

func TestStartUsesBackendLocation(t *testing.T) {
	backend := history.NewMemory("/app/users/3?tab=x")
	r := startedRouter(t, []RouteConfig{
		{Path: "/users/:id", Component: comp("User")},
	}, WithBackend(backend), WithBase("/app"))

	if got := r.CurrentRoute().FullPath; got != "/users/3?tab=x" {
		t.Errorf("current = %q", got)
	}
	if _, err := push(t, r, "/users/4"); err != nil {
		t.Fatal(err)
	}
	if backend.Location() != "/app/users/4" {
		t.Errorf("backend location = %q, want /app/users/4", backend.Location())
	}
}

func TestPushReplaceAndHistory(t *testing.T) {
	backend := history.NewMemory("/")
	var scrolls []string
	r := startedRouter(t, []RouteConfig{
		{Path: "/", Component: comp("Home")},
		{Path: "/a", Component: comp("A")},
		{Path: "/b", Component: comp("B")},
		{Path: "/c", Component: comp("C")},
	}, WithBackend(backend), WithAfterRender(syncRender), WithScrollBehavior(func(to, from *Route, popState bool) {
		if popState {
			scrolls = append(scrolls, "pop "+to.Path)
		} else {
			scrolls = append(scrolls, to.Path)
		}
	}))

	push(t, r, "/a?x=1#h")
	push(t, r, "/b")
	if _, err := r.Replace(context.Background(), Path("/c")); err != nil {
		t.Fatal(err)
	}
	if got, want := backend.Entries(), []string{"/", "/a?x=1#h", "/c"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("entries = %v, want %v", got, want)
	}

	r.Back()
	if got := r.CurrentRoute().FullPath; got != "/a?x=1#h" {
		t.Errorf("after Back current = %q", got)
	}
	r.Forward()
	if got := r.CurrentRoute().Path; got != "/c" {
		t.Errorf("after Forward current = %q", got)
	}
	r.Go(-2)
	if got := r.CurrentRoute().Path; got != "/" {
		t.Errorf("after Go(-2) current = %q", got)
	}

	want := []string{"/a", "/b", "/c", "pop /a", "pop /c", "pop /"}
	if !reflect.DeepEqual(scrolls, want) {
		t.Errorf("scrolls = %v, want %v", scrolls, want)
	}
}

func TestPopAbortRestoresURL(t *testing.T) {
	backend := history.NewMemory("/")
	r := startedRouter(t, []RouteConfig{
		{Path: "/", Component: comp("Home")},
		{Path: "/a", Component: comp("A")},
	}, WithBackend(backend))

	push(t, r, "/a")
	r.BeforeEach(func(ctx context.Context, to, from *Route) Verdict { return Abort() })
	r.Back()

	if r.CurrentRoute().Path != "/a" {
		t.Errorf("current = %q, want /a", r.CurrentRoute().Path)
	}
	if backend.Location() != "/a" {
		t.Errorf("backend location = %q, want the aborted move undone", backend.Location())
	}
}

func TestListenAndEvents(t *testing.T) {
	r := startedRouter(t, []RouteConfig{
		{Path: "/", Component: comp("Home")},
		{Path: "/a", Component: comp("A")},
	})

	var seen []string
	r.Listen(func(route *Route) { seen = append(seen, route.Path) })

	var events []Event
	r.Observe(func(e Event) { events = append(events, e) })

	push(t, r, "/a")
	push(t, r, "/a")

	if !reflect.DeepEqual(seen, []string{"/a"}) {
		t.Errorf("listener saw %v", seen)
	}
	if len(events) != 4 {
		t.Fatalf("events = %d, want 4", len(events))
	}
	if events[0].Kind != EventStarted || events[1].Kind != EventCompleted || events[0].Seq != events[1].Seq {
		t.Errorf("first navigation events = %v %v", events[0], events[1])
	}
	if events[3].Kind != EventDuplicated || events[3].Err == nil {
		t.Errorf("duplicate event = %+v", events[3])
	}
	if events[2].Seq <= events[1].Seq {
		t.Errorf("sequence did not grow: %d then %d", events[1].Seq, events[2].Seq)
	}
}

func TestAddRoutesRefreshesCurrent(t *testing.T) {
	backend := history.NewMemory("/late")
	r := startedRouter(t, []RouteConfig{
		{Path: "/", Component: comp("Home")},
	}, WithBackend(backend))

	if len(r.CurrentRoute().Matched) != 0 {
		t.Fatalf("matched %q before the route existed", r.CurrentRoute().Leaf().Path)
	}

	r.AddRoutes(context.Background(), []RouteConfig{{Path: "/late", Component: comp("Late")}})
	if leaf := r.CurrentRoute().Leaf(); leaf == nil || leaf.Path != "/late" {
		t.Errorf("current leaf after AddRoutes = %v", leaf)
	}
}

func TestMatchedComponents(t *testing.T) {
	r := startedRouter(t, []RouteConfig{
		{Path: "/", Component: comp("Home")},
		{Path: "/p", Component: comp("P"), Children: []RouteConfig{
			{Path: "c", Components: map[string]*Component{"default": comp("C"), "aside": comp("Aside")}},
		}},
	})

	names := func(cs []*Component) []string {
		out := make([]string, len(cs))
		for i, c := range cs {
			out[i] = c.Name
		}
		return out
	}

	if got := names(r.MatchedComponents(nil)); !reflect.DeepEqual(got, []string{"Home"}) {
		t.Errorf("current components = %v", got)
	}
	to := Path("/p/c")
	if got := names(r.MatchedComponents(&to)); !reflect.DeepEqual(got, []string{"P", "Aside", "C"}) {
		t.Errorf("/p/c components = %v", got)
	}
}
