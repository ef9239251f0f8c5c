package router

import "context"

// Guard is a global or per-route navigation guard. It runs on the
// navigating goroutine and may block; ctx is canceled once a newer
// navigation supersedes this one.
type Guard func(ctx context.Context, to, from *Route) Verdict

// ComponentGuard is an in-component leave or update guard. instance is the
// view mounted in the guarded slot.
type ComponentGuard func(ctx context.Context, to, from *Route, instance any) Verdict

// EnterGuard is an in-component enter guard. The component is not mounted
// yet; return Then to get hold of the instance once it is.
type EnterGuard func(ctx context.Context, to, from *Route) Verdict

// AfterHook observes committed navigations.
type AfterHook func(to, from *Route)

type verdictKind int

const (
	verdictContinue verdictKind = iota
	verdictAbort
	verdictFail
	verdictNavigate
)

// Verdict is a guard's decision. The zero Verdict is Continue.
type Verdict struct {
	kind verdictKind
	err  error
	to   Location
	then func(instance any)
}

// Continue lets the navigation proceed.
var Continue = Verdict{}

// Abort stops the navigation and restores the previous URL.
func Abort() Verdict {
	return Verdict{kind: verdictAbort}
}

// Fail stops the navigation with err, which is reported to error
// observers. Fail(nil) is Abort().
func Fail(err error) Verdict {
	if err == nil {
		return Abort()
	}
	return Verdict{kind: verdictFail, err: err}
}

// Navigate stops the navigation and starts a new one to loc, replacing the
// history entry when loc.Replace is set.
func Navigate(loc Location) Verdict {
	return Verdict{kind: verdictNavigate, to: loc}
}

// Then lets the navigation proceed and calls fn with the mounted instance
// once the entered view exists. Only enter guards honor fn.
func Then(fn func(instance any)) Verdict {
	return Verdict{then: fn}
}

// IsContinue reports whether v lets the navigation proceed.
func (v Verdict) IsContinue() bool {
	return v.kind == verdictContinue
}
