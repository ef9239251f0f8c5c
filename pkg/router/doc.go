// Package router maps navigation intents onto nested route records and runs
// guarded, cancelable transitions between them.
//
// # Route Tables
//
// Routes are declared as a tree of RouteConfig values:
//
//	routes := []router.RouteConfig{
//	    {Path: "/", Component: home},
//	    {Path: "/users/:id", Name: "user", Component: user, Children: []router.RouteConfig{
//	        {Path: "posts", Component: posts},  // /users/:id/posts
//	        {Path: "", Component: profile},     // default child
//	    }},
//	    {Path: "/old", Redirect: router.RedirectTo("/users/1")},
//	    {Path: "*", Component: notFound},       // always tried last
//	}
//
// Paths use the familiar pattern syntax (":id", ":id?", ":path*", ":id(\\d+)"
// and "*"). Records are tried in registration order and the first match
// wins. Configuration mistakes are reported as coded warnings (R001 and up)
// through the router's logger and never stop the build.
//
// # Matching
//
// Match turns a Location (a path string, a named route with params, or
// params alone relative to the current route) into an immutable Route. A
// location that matches nothing yields a Route with no matched records.
//
//	route := r.Match(router.Path("/users/42?tab=posts"), nil)
//	route.Params["id"]  // "42"
//	route.FullPath      // "/users/42?tab=posts"
//
// # Navigation
//
// Push, Replace and the backend's own moves run the guard pipeline:
//
//  1. leave guards of deactivated components, innermost first
//  2. BeforeEach guards
//  3. update guards of reused components
//  4. BeforeEnter of activated routes
//  5. lazy component loading
//  6. enter guards of activated components
//  7. BeforeResolve guards
//
// Guards are plain functions returning a Verdict:
//
//	r.BeforeEach(func(ctx context.Context, to, from *router.Route) router.Verdict {
//	    if to.Meta["auth"] == true && !loggedIn(ctx) {
//	        return router.Navigate(router.Path("/login"))
//	    }
//	    return router.Continue
//	})
//
// A navigation started while another is in flight supersedes it: the older
// one's context is canceled and it ends with KindSuperseded. Every
// navigation that does not commit reports a *NavigationError.
//
// # Backends
//
// The controller keeps a Backend's URL in step with the committed route.
// Package history provides an in-memory stack (the default) and a
// websocket-driven remote URL bar.
package router
