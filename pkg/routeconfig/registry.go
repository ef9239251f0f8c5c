package routeconfig

import (
	"context"
	"sort"
	"sync"

	"github.com/vango-dev/vrouter/pkg/router"
)

// Registry maps the names used in route files to components and guards.
// It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	components map[string]*router.Component
	guards     map[string]router.Guard

	placeholder bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		components: make(map[string]*router.Component),
		guards:     make(map[string]router.Guard),
	}
}

// Component registers c under name. A component without a name takes
// the registered one.
func (r *Registry) Component(name string, c *router.Component) *Registry {
	if c.Name == "" {
		c.Name = name
	}
	r.mu.Lock()
	r.components[name] = c
	r.mu.Unlock()
	return r
}

// Guard registers g under name for use in beforeEnter lists.
func (r *Registry) Guard(name string, g router.Guard) *Registry {
	r.mu.Lock()
	r.guards[name] = g
	r.mu.Unlock()
	return r
}

// LookupComponent returns the component registered as name.
func (r *Registry) LookupComponent(name string) (*router.Component, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.components[name]
	if !ok && r.placeholder {
		c = &router.Component{Name: name}
		r.components[name] = c
		ok = true
	}
	return c, ok
}

// LookupGuard returns the guard registered as name.
func (r *Registry) LookupGuard(name string) (router.Guard, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.guards[name]
	if !ok && r.placeholder {
		return func(context.Context, *router.Route, *router.Route) router.Verdict { return router.Continue }, true
	}
	return g, ok
}

// ComponentNames returns the registered component names, sorted.
func (r *Registry) ComponentNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Placeholders is a Registry whose lookups never fail: unknown component
// names resolve to a component carrying only the name, and unknown guards
// let navigation continue. Tooling uses it to inspect a file without the
// application's components.
func Placeholders() *Registry {
	r := NewRegistry()
	r.placeholder = true
	return r
}
