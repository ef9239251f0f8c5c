package router

import (
	"fmt"
	"log/slog"
	"net/url"

	rerrors "github.com/vango-dev/vrouter/internal/errors"
	"github.com/vango-dev/vrouter/pkg/query"
	"github.com/vango-dev/vrouter/pkg/routepath"
)

// maxRedirects bounds redirect and alias chains within one match.
const maxRedirects = 32

// MatcherOptions configures a Matcher.
type MatcherOptions struct {
	// ParseQuery replaces the default query parser.
	ParseQuery query.Parser

	// StringifyQuery replaces the default query serializer in full paths.
	StringifyQuery query.Stringifier

	Logger *slog.Logger
}

// Matcher resolves locations against a Table.
type Matcher struct {
	table          *Table
	parseQuery     query.Parser
	stringifyQuery query.Stringifier
	logger         *slog.Logger
}

// NewMatcher returns a matcher over table.
func NewMatcher(table *Table, opts MatcherOptions) *Matcher {
	m := &Matcher{
		table:          table,
		parseQuery:     opts.ParseQuery,
		stringifyQuery: opts.StringifyQuery,
		logger:         opts.Logger,
	}
	if m.stringifyQuery == nil {
		m.stringifyQuery = query.Stringify
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	return m
}

// Table returns the matcher's table.
func (m *Matcher) Table() *Table {
	return m.table
}

// Match resolves raw, relative to current, into a route. It never fails: a
// location that matches nothing yields a route with no matched records.
func (m *Matcher) Match(raw Location, current *Route) *Route {
	return m.match(raw, current, nil, 0)
}

func (m *Matcher) match(raw Location, current *Route, redirectedFrom *Location, depth int) *Route {
	loc := m.normalize(raw, current, false)

	if loc.Name != "" {
		record, ok := m.table.Named(loc.Name)
		if !ok {
			rerrors.New("R013").WithRoute("", loc.Name).Log(m.logger)
			return m.createRoute(nil, loc, nil)
		}

		// Inherit required params the caller left out from the current route.
		params := copyParams(loc.Params)
		if params == nil {
			params = map[string]string{}
		}
		if current != nil {
			for _, key := range record.Keys() {
				if key.Optional {
					continue
				}
				if _, ok := params[key.Name]; ok {
					continue
				}
				if v, ok := current.Params[key.Name]; ok {
					params[key.Name] = v
				}
			}
		}
		loc.Params = params
		loc.Path = m.fillParams(record.Path, params, fmt.Sprintf("named route %q", loc.Name))
		return m.resolve(record, loc, redirectedFrom, depth)
	}

	if loc.Path != "" {
		loc.Params = map[string]string{}
		if record, caps := m.table.scan(loc.Path); record != nil {
			for _, c := range caps {
				if !c.Matched {
					continue
				}
				name := c.Key.Name
				if c.Key.Unnamed && name == "0" {
					name = PathMatchParam
				}
				v, err := url.PathUnescape(c.Value)
				if err != nil {
					v = c.Value
				}
				loc.Params[name] = v
			}
			return m.resolve(record, loc, redirectedFrom, depth)
		}
	}

	return m.createRoute(nil, loc, nil)
}

// resolve follows record's redirect or alias, or snapshots it.
func (m *Matcher) resolve(record *RouteRecord, loc Location, redirectedFrom *Location, depth int) *Route {
	if record != nil && (record.Redirect != nil || record.MatchAs != "") && depth >= maxRedirects {
		rerrors.New("R011").
			WithRoute(record.Path, record.Name).
			WithDetail(fmt.Sprintf("More than %d redirects while resolving %q.", maxRedirects, loc.Path)).
			Log(m.logger)
		return m.createRoute(nil, loc, nil)
	}
	if record != nil && record.Redirect != nil {
		from := loc
		if redirectedFrom != nil {
			from = *redirectedFrom
		}
		return m.redirect(record, from, depth+1)
	}
	if record != nil && record.MatchAs != "" {
		return m.alias(record, loc, depth+1)
	}
	return m.createRoute(record, loc, redirectedFrom)
}

func (m *Matcher) redirect(record *RouteRecord, loc Location, depth int) *Route {
	target := record.Redirect.To
	if record.Redirect.Func != nil {
		target = record.Redirect.Func(m.createRoute(record, loc, nil))
	}

	q, hash, params := loc.Query, loc.Hash, loc.Params
	if target.Query != nil {
		q = target.Query
	}
	if target.Hash != "" {
		hash = target.Hash
	}
	if target.Params != nil {
		params = target.Params
	}

	switch {
	case target.Name != "":
		if _, ok := m.table.Named(target.Name); !ok {
			rerrors.New("R012").WithRoute(record.Path, target.Name).Log(m.logger)
			return m.createRoute(nil, Location{Name: target.Name, Query: q, Hash: hash, Params: params, normalized: true}, nil)
		}
		next := Location{Name: target.Name, Query: q, Hash: hash, Params: params, normalized: true}
		return m.match(next, nil, &loc, depth)

	case target.Path != "":
		base := "/"
		if record.Parent != nil {
			base = record.Parent.Path
		}
		rawPath := routepath.ResolvePath(target.Path, base, true)
		resolved := m.fillParams(rawPath, params, fmt.Sprintf("redirect route with path %q", rawPath))
		next := Location{Path: resolved, Query: q, Hash: hash, normalized: true}
		return m.match(next, nil, &loc, depth)
	}

	rerrors.New("R011").WithRoute(record.Path, record.Name).Log(m.logger)
	return m.createRoute(nil, loc, nil)
}

// alias matches the record's real path and presents the result under the
// alias location.
func (m *Matcher) alias(record *RouteRecord, loc Location, depth int) *Route {
	aliasedPath := m.fillParams(record.MatchAs, loc.Params, fmt.Sprintf("aliased route with path %q", record.MatchAs))
	aliased := m.match(Location{Path: aliasedPath, normalized: true}, nil, nil, depth)
	if leaf := aliased.Leaf(); leaf != nil {
		loc.Params = aliased.Params
		return m.resolve(leaf, loc, nil, depth)
	}
	return m.createRoute(nil, loc, nil)
}

func (m *Matcher) createRoute(record *RouteRecord, loc Location, redirectedFrom *Location) *Route {
	return createRoute(record, loc, redirectedFrom, m.stringifyQuery)
}
