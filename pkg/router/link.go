package router

// LinkState is what a link to a location needs to render: its href and
// whether it is active for the current route.
type LinkState struct {
	Href  string
	Route *Route

	// Active is set when the current route is the target or nested under
	// it with a superset of its query.
	Active bool

	// ExactActive is set when the current route is the target.
	ExactActive bool
}

// Link resolves to against the current route and reports its active
// state. A location that redirects is compared as written, not as the
// route it redirects to.
func (r *Router) Link(to Location) LinkState {
	return r.LinkFor(to, r.controller.Current(), false)
}

// LinkFor is Link relative to current. With appendPath a relative path is
// appended to current's path.
func (r *Router) LinkFor(to Location, current *Route, appendPath bool) LinkState {
	res := r.Resolve(to, current, appendPath)
	target := res.Route
	if target.RedirectedFrom != "" {
		loc := r.matcher.normalize(Path(target.RedirectedFrom), current, false)
		target = r.matcher.createRoute(nil, loc, nil)
	}

	active := r.controller.Current()
	return LinkState{
		Href:        res.Href,
		Route:       res.Route,
		Active:      IsIncludedRoute(active, target),
		ExactActive: IsSameRoute(active, target),
	}
}
