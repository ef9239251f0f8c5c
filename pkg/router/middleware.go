package router

import "context"

// Chain combines guards into one that runs them in order. The first
// verdict that is not Continue ends the chain and is returned.
func Chain(guards ...Guard) Guard {
	return func(ctx context.Context, to, from *Route) Verdict {
		for _, g := range guards {
			if v := g(ctx, to, from); !v.IsContinue() || v.then != nil {
				return v
			}
		}
		return Continue
	}
}

// Skip runs g unless condition holds for the navigation.
func Skip(condition func(to, from *Route) bool, g Guard) Guard {
	return func(ctx context.Context, to, from *Route) Verdict {
		if condition(to, from) {
			return Continue
		}
		return g(ctx, to, from)
	}
}

// Only runs g when condition holds for the navigation.
func Only(condition func(to, from *Route) bool, g Guard) Guard {
	return func(ctx context.Context, to, from *Route) Verdict {
		if !condition(to, from) {
			return Continue
		}
		return g(ctx, to, from)
	}
}

// HasMeta reports whether any record the target matched carries key in
// its meta. It is meant as a Skip or Only condition.
func HasMeta(key string) func(to, from *Route) bool {
	return func(to, _ *Route) bool {
		for _, record := range to.Matched {
			if _, ok := record.Meta[key]; ok {
				return true
			}
		}
		return false
	}
}
