package router

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// resolveQueue splits two matched chains at the first record they do not
// share: records before it are updated, the rest of next is activated and
// the rest of current is deactivated.
func resolveQueue(current, next []*RouteRecord) (updated, deactivated, activated []*RouteRecord) {
	i := 0
	for i < len(current) && i < len(next) && current[i] == next[i] {
		i++
	}
	return next[:i:i], current[i:], next[i:]
}

// eachComponent calls fn for every component of records, records in order
// and slots by name, and collects one group of guards per component.
func eachComponent(records []*RouteRecord, fn func(c *Component, record *RouteRecord, slot string) []Guard) [][]Guard {
	var groups [][]Guard
	for _, record := range records {
		for _, slot := range record.Slots() {
			c := record.Component(slot)
			if c == nil {
				continue
			}
			if g := fn(c, record, slot); len(g) > 0 {
				groups = append(groups, g)
			}
		}
	}
	return groups
}

func flatten(groups [][]Guard, reverse bool) []Guard {
	var out []Guard
	for i := range groups {
		g := groups[i]
		if reverse {
			g = groups[len(groups)-1-i]
		}
		out = append(out, g...)
	}
	return out
}

// bindInstance adapts component guards to the mounted instance of slot.
// Without an instance the guards are skipped.
func bindInstance(guards []ComponentGuard, record *RouteRecord, slot string) []Guard {
	if len(guards) == 0 {
		return nil
	}
	inst, ok := record.Instance(slot)
	if !ok {
		return nil
	}
	out := make([]Guard, 0, len(guards))
	for _, g := range guards {
		out = append(out, func(ctx context.Context, to, from *Route) Verdict {
			return g(ctx, to, from, inst)
		})
	}
	return out
}

// leaveGuards returns the leave guards of deactivated, innermost first.
func leaveGuards(deactivated []*RouteRecord) []Guard {
	return flatten(eachComponent(deactivated, func(c *Component, record *RouteRecord, slot string) []Guard {
		return bindInstance(c.BeforeRouteLeave, record, slot)
	}), true)
}

// updateGuards returns the update guards of updated, outermost first.
func updateGuards(updated []*RouteRecord) []Guard {
	return flatten(eachComponent(updated, func(c *Component, record *RouteRecord, slot string) []Guard {
		return bindInstance(c.BeforeRouteUpdate, record, slot)
	}), false)
}

// beforeEnterGuards returns the per-route guards of activated.
func beforeEnterGuards(activated []*RouteRecord) []Guard {
	var out []Guard
	for _, record := range activated {
		if record.BeforeEnter != nil {
			out = append(out, record.BeforeEnter)
		}
	}
	return out
}

// enterGuards returns the enter guards of activated, outermost first. A
// guard returning Then queues a callback on postEnter that waits for the
// slot's instance while valid holds.
func (c *Controller) enterGuards(activated []*RouteRecord, postEnter *[]func(), valid func() bool) []Guard {
	return flatten(eachComponent(activated, func(comp *Component, record *RouteRecord, slot string) []Guard {
		out := make([]Guard, 0, len(comp.BeforeRouteEnter))
		for _, g := range comp.BeforeRouteEnter {
			out = append(out, func(ctx context.Context, to, from *Route) Verdict {
				v := g(ctx, to, from)
				if v.kind == verdictContinue && v.then != nil {
					then := v.then
					*postEnter = append(*postEnter, func() {
						c.awaitInstance(record, slot, then, valid)
					})
				}
				return v
			})
		}
		return out
	}), false)
}

// resolveComponents returns the step that loads the lazy components of
// activated.
func resolveComponents(activated []*RouteRecord) Guard {
	return func(ctx context.Context, to, from *Route) Verdict {
		if err := resolveAsyncComponents(ctx, activated); err != nil {
			return Fail(err)
		}
		return Continue
	}
}

// resolveAsyncComponents runs every pending loader of records concurrently
// and stores the results in the records. The first failure is returned.
func resolveAsyncComponents(ctx context.Context, records []*RouteRecord) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, record := range records {
		for slot, comp := range record.Components() {
			if !comp.Lazy() {
				continue
			}
			g.Go(func() error {
				resolved, err := comp.Load(gctx)
				if err != nil {
					return fmt.Errorf("resolve async component %q of %s: %w", slot, record.Path, err)
				}
				if resolved == nil {
					return fmt.Errorf("resolve async component %q of %s: loader returned nil", slot, record.Path)
				}
				record.replaceComponent(slot, comp, resolved)
				return nil
			})
		}
	}
	return g.Wait()
}
