package router

import (
	"context"
	"regexp"
	"sync"

	"github.com/vango-dev/vrouter/pkg/pathpattern"
	"github.com/vango-dev/vrouter/pkg/query"
)

// DefaultSlot is the view slot a single Component is registered under.
const DefaultSlot = "default"

// RouteConfig declares one route of a table. Children inherit the parent's
// path unless their own path is absolute.
type RouteConfig struct {
	// Path is the route pattern (e.g., "/users/:id"). Required.
	Path string

	// Name registers the route for navigation by name.
	Name string

	// Component is shorthand for Components{"default": Component}.
	Component *Component

	// Components maps view slot names to components.
	Components map[string]*Component

	// Redirect makes the route redirect instead of rendering.
	Redirect *Redirect

	// Alias lists additional paths that render this route.
	Alias []string

	Children []RouteConfig

	// BeforeEnter guards entry into this route.
	BeforeEnter Guard

	// Meta is opaque user data copied onto matched routes.
	Meta map[string]any

	// Props is the per-slot props configuration. When Components is nil the
	// "default" entry applies to Component.
	Props map[string]Props

	// CaseSensitive makes the path pattern case-sensitive.
	CaseSensitive bool

	// Strict keeps a trailing slash significant.
	Strict bool
}

// Component is a view definition as seen by the router: the in-component
// guards plus an opaque payload for the renderer. A component with Load set
// is resolved lazily the first time a route activating it is confirmed.
type Component struct {
	// Name identifies the component in logs and tooling.
	Name string

	// Value is the renderer's definition; the router never looks at it.
	Value any

	BeforeRouteEnter  []EnterGuard
	BeforeRouteUpdate []ComponentGuard
	BeforeRouteLeave  []ComponentGuard

	// Load resolves the real component. It is called at most once per
	// resolution attempt; the result replaces this entry in the record.
	Load func(ctx context.Context) (*Component, error)
}

// Lazy reports whether the component still has to be loaded.
func (c *Component) Lazy() bool {
	return c != nil && c.Load != nil
}

// Props configures how a slot's props are derived from a route.
type Props struct {
	// Params passes the route params as props.
	Params bool

	// Static props are passed as is.
	Static map[string]any

	// Func computes props from the route.
	Func func(*Route) map[string]any
}

// Resolve returns the props for route. Func takes precedence over Static,
// which takes precedence over Params.
func (p Props) Resolve(route *Route) map[string]any {
	switch {
	case p.Func != nil:
		return p.Func(route)
	case p.Static != nil:
		return p.Static
	case p.Params:
		out := make(map[string]any, len(route.Params))
		for k, v := range route.Params {
			out[k] = v
		}
		return out
	}
	return nil
}

// Redirect describes where a route redirects to: a fixed location or a
// function of the route that would otherwise have been matched.
type Redirect struct {
	To   Location
	Func func(to *Route) Location
}

// RedirectTo redirects to a path, which may be relative to the parent route.
func RedirectTo(path string) *Redirect {
	return &Redirect{To: Location{Path: path}}
}

// RedirectToLocation redirects to a location, typically a named one.
func RedirectToLocation(loc Location) *Redirect {
	return &Redirect{To: loc}
}

// RedirectFunc redirects to the location fn computes.
func RedirectFunc(fn func(to *Route) Location) *Redirect {
	return &Redirect{Func: fn}
}

// Location is a navigation intent. A Location is normalized once; normalizing
// it again returns it unchanged.
type Location struct {
	Name   string
	Path   string
	Params map[string]string
	Query  *query.Query
	Hash   string

	// Append resolves a relative Path under the current path instead of
	// next to it.
	Append bool

	// Replace asks a guard redirect to replace the history entry.
	Replace bool

	normalized bool
}

// Path returns a location for a raw "path?query#hash" string.
func Path(raw string) Location {
	return Location{Path: raw}
}

// Named returns a location for a named route.
func Named(name string, params map[string]string) Location {
	return Location{Name: name, Params: params}
}

// Normalized reports whether loc went through normalization.
func (loc Location) Normalized() bool {
	return loc.normalized
}

// RouteRecord is a compiled entry of a route table. Its pattern, name and
// ancestry never change; resolved components and mounted instances are
// updated under the record's lock.
type RouteRecord struct {
	// Path is the full pattern including the parent's path.
	Path string

	Name string

	// Pattern is nil when Path failed to compile; such a record never matches.
	Pattern *pathpattern.Pattern

	Parent *RouteRecord

	Redirect *Redirect

	// MatchAs is the real path an alias record stands for, or "".
	MatchAs string

	BeforeEnter Guard

	Meta map[string]any

	mu         sync.RWMutex
	components map[string]*Component
	props      map[string]Props
	instances  map[string]any
}

// Regexp returns the compiled matcher, or nil.
func (r *RouteRecord) Regexp() *regexp.Regexp {
	if r.Pattern == nil {
		return nil
	}
	return r.Pattern.Regexp()
}

// Keys returns the pattern's capture keys.
func (r *RouteRecord) Keys() []pathpattern.Key {
	if r.Pattern == nil {
		return nil
	}
	return r.Pattern.Keys()
}

// Component returns the component registered for slot, or nil.
func (r *RouteRecord) Component(slot string) *Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.components[slot]
}

// Components returns a copy of the slot → component map.
func (r *RouteRecord) Components() map[string]*Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]*Component, len(r.components))
	for k, v := range r.components {
		out[k] = v
	}
	return out
}

// Slots returns the slot names that have a component, sorted.
func (r *RouteRecord) Slots() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedSlots(r.components)
}

// Props returns the props configuration for slot.
func (r *RouteRecord) Props(slot string) Props {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.props[slot]
}

// replaceComponent swaps a settled loader for its result. A slot that no
// longer holds old is left alone.
func (r *RouteRecord) replaceComponent(slot string, old, c *Component) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.components[slot] == old {
		r.components[slot] = c
	}
}

// RegisterInstance records the view instance mounted in slot. A nil inst
// unregisters it.
func (r *RouteRecord) RegisterInstance(slot string, inst any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inst == nil {
		delete(r.instances, slot)
		return
	}
	r.instances[slot] = inst
}

// UnregisterInstance removes the view instance mounted in slot.
func (r *RouteRecord) UnregisterInstance(slot string) {
	r.RegisterInstance(slot, nil)
}

// Instance returns the view instance mounted in slot.
func (r *RouteRecord) Instance(slot string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inst, ok := r.instances[slot]
	return inst, ok
}
