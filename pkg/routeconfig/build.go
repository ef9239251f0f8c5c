package routeconfig

import (
	"errors"
	"fmt"
	"strings"

	rerrors "github.com/vango-dev/vrouter/internal/errors"
	"github.com/vango-dev/vrouter/pkg/router"
)

// Build converts the file into route configs, resolving names through reg.
// Every unresolved name is reported; the joined error holds one R021
// diagnostic per name.
func (f *File) Build(reg *Registry) ([]router.RouteConfig, error) {
	b := builder{reg: reg}
	routes := b.routes(f.Routes, "")
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	return routes, nil
}

type builder struct {
	reg  *Registry
	errs []error
}

func (b *builder) routes(in []Route, parent string) []router.RouteConfig {
	if len(in) == 0 {
		return nil
	}
	out := make([]router.RouteConfig, 0, len(in))
	for _, r := range in {
		out = append(out, b.route(r, parent))
	}
	return out
}

func (b *builder) route(r Route, parent string) router.RouteConfig {
	display := joinDisplay(parent, r.Path)
	cfg := router.RouteConfig{
		Path:          r.Path,
		Name:          r.Name,
		Alias:         r.Alias,
		Meta:          r.Meta,
		CaseSensitive: r.CaseSensitive,
		Strict:        r.Strict,
	}

	if r.Component != "" {
		cfg.Component = b.component(r.Component, display, r.Name)
	}
	if len(r.Components) > 0 {
		cfg.Components = make(map[string]*router.Component, len(r.Components))
		for slot, name := range r.Components {
			cfg.Components[slot] = b.component(name, display, r.Name)
		}
	}

	switch {
	case r.Redirect != "" && r.RedirectName != "":
		b.errs = append(b.errs, rerrors.New("R020").
			WithRoute(display, r.Name).
			WithDetail("A route sets both redirect and redirectName."))
	case r.Redirect != "":
		cfg.Redirect = router.RedirectTo(r.Redirect)
	case r.RedirectName != "":
		cfg.Redirect = router.RedirectToLocation(router.Named(r.RedirectName, r.RedirectParams))
	}

	if len(r.BeforeEnter) > 0 {
		guards := make([]router.Guard, 0, len(r.BeforeEnter))
		for _, name := range r.BeforeEnter {
			g, ok := b.reg.LookupGuard(name)
			if !ok {
				b.errs = append(b.errs, rerrors.New("R021").
					WithRoute(display, r.Name).
					WithDetail(fmt.Sprintf("Guard %q is not registered.", name)))
				continue
			}
			guards = append(guards, g)
		}
		if len(guards) == 1 {
			cfg.BeforeEnter = guards[0]
		} else if len(guards) > 1 {
			cfg.BeforeEnter = router.Chain(guards...)
		}
	}

	if r.Props || len(r.StaticProps) > 0 {
		cfg.Props = map[string]router.Props{
			"default": {Params: r.Props, Static: r.StaticProps},
		}
	}

	cfg.Children = b.routes(r.Children, display)
	return cfg
}

func (b *builder) component(name, path, routeName string) *router.Component {
	c, ok := b.reg.LookupComponent(name)
	if !ok {
		err := rerrors.New("R021").
			WithRoute(path, routeName).
			WithDetail(fmt.Sprintf("Component %q is not registered.", name))
		if names := b.reg.ComponentNames(); len(names) > 0 {
			err.WithSuggestion("Registered components: " + strings.Join(names, ", "))
		}
		b.errs = append(b.errs, err)
	}
	return c
}

// joinDisplay renders a child path under its parent for diagnostics.
func joinDisplay(parent, p string) string {
	if parent == "" || strings.HasPrefix(p, "/") {
		return p
	}
	if p == "" {
		return parent
	}
	return strings.TrimSuffix(parent, "/") + "/" + p
}
