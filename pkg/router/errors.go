package router

import (
	"errors"
	"fmt"
)

// Kind classifies why a navigation did not commit.
type Kind int

const (
	// KindAborted: a guard returned Abort, or the caller's context ended.
	KindAborted Kind = iota + 1

	// KindRedirected: a guard sent navigation elsewhere.
	KindRedirected

	// KindDuplicated: the target is the current route.
	KindDuplicated

	// KindSuperseded: a newer navigation started before this one finished.
	KindSuperseded

	// KindError: a guard failed or panicked, or a component failed to load.
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindAborted:
		return "aborted"
	case KindRedirected:
		return "redirected"
	case KindDuplicated:
		return "duplicated"
	case KindSuperseded:
		return "superseded"
	case KindError:
		return "error"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

var (
	// ErrNavigationDuplicated reports a navigation to the current location.
	ErrNavigationDuplicated = errors.New("navigation duplicated")

	// ErrNavigationAborted reports a navigation stopped by a guard.
	ErrNavigationAborted = errors.New("navigation aborted")

	// ErrNavigationRedirected reports a navigation a guard redirected.
	ErrNavigationRedirected = errors.New("navigation redirected")

	// ErrNavigationSuperseded reports a navigation replaced by a newer one.
	ErrNavigationSuperseded = errors.New("navigation superseded")
)

// NavigationError describes a navigation that did not commit.
type NavigationError struct {
	Kind Kind
	From *Route
	To   *Route

	// Redirect is the guard's target when Kind is KindRedirected.
	Redirect *Location

	// Err is the cause: one of the ErrNavigation sentinels, or the guard's
	// error when Kind is KindError.
	Err error
}

func (e *NavigationError) Error() string {
	from, to := "", ""
	if e.From != nil {
		from = e.From.FullPath
	}
	if e.To != nil {
		to = e.To.FullPath
	}
	return fmt.Sprintf("navigation from %q to %q %s: %v", from, to, e.Kind, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

func newNavigationError(kind Kind, from, to *Route, cause error) *NavigationError {
	if cause == nil {
		switch kind {
		case KindAborted:
			cause = ErrNavigationAborted
		case KindRedirected:
			cause = ErrNavigationRedirected
		case KindDuplicated:
			cause = ErrNavigationDuplicated
		case KindSuperseded:
			cause = ErrNavigationSuperseded
		}
	}
	return &NavigationError{Kind: kind, From: from, To: to, Err: cause}
}

// IsNavigationFailure reports whether err is a NavigationError of one of
// kinds. With no kinds, any NavigationError matches.
func IsNavigationFailure(err error, kinds ...Kind) bool {
	var nav *NavigationError
	if !errors.As(err, &nav) {
		return false
	}
	if len(kinds) == 0 {
		return true
	}
	for _, k := range kinds {
		if nav.Kind == k {
			return true
		}
	}
	return false
}
