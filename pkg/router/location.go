package router

import (
	"fmt"
	"log/slog"

	rerrors "github.com/vango-dev/vrouter/internal/errors"
	"github.com/vango-dev/vrouter/pkg/query"
	"github.com/vango-dev/vrouter/pkg/routepath"
)

// NormalizeLocation resolves raw against current: a relative path against
// current's path, params alone against current's name or path template. The
// result carries a normalized mark and is returned unchanged if normalized
// again. parse may be nil.
func NormalizeLocation(raw Location, current *Route, appendPath bool, parse query.Parser) Location {
	m := &Matcher{parseQuery: parse, logger: slog.Default()}
	return m.normalize(raw, current, appendPath)
}

func (m *Matcher) normalize(raw Location, current *Route, appendPath bool) Location {
	if raw.normalized {
		return raw
	}
	if raw.Name != "" {
		next := raw
		next.Params = copyParams(raw.Params)
		return next
	}

	// Params alone are relative to the current route.
	if raw.Path == "" && raw.Params != nil && current != nil {
		next := raw
		next.normalized = true
		params := copyParams(current.Params)
		if params == nil {
			params = map[string]string{}
		}
		for k, v := range raw.Params {
			params[k] = v
		}
		switch {
		case current.Name != "":
			next.Name = current.Name
			next.Params = params
		case len(current.Matched) > 0:
			template := current.Leaf().Path
			next.Path = m.fillParams(template, params, fmt.Sprintf("path %q", current.Path))
		default:
			rerrors.New("R010").
				WithDetail("Relative params navigation requires a current route.").
				Log(m.logger)
		}
		return next
	}

	parsed := routepath.ParsePath(raw.Path)
	base := "/"
	if current != nil && current.Path != "" {
		base = current.Path
	}
	path := base
	if parsed.Path != "" {
		path = routepath.ResolvePath(parsed.Path, base, appendPath || raw.Append)
	}

	q := query.Resolve(parsed.Query, raw.Query, m.parseQuery, func(err error) {
		rerrors.New("R014").Wrap(err).Log(m.logger)
	})

	hash := raw.Hash
	if hash == "" {
		hash = parsed.Hash
	}
	if hash != "" && hash[0] != '#' {
		hash = "#" + hash
	}

	return Location{
		Path:       path,
		Query:      q,
		Hash:       hash,
		Replace:    raw.Replace,
		normalized: true,
	}
}

// fillParams is FillParams that reports failures and yields "". No report is
// made when a pathMatch param was supplied.
func (m *Matcher) fillParams(path string, params map[string]string, routeMsg string) string {
	filled, err := FillParams(path, params)
	if err != nil {
		if _, ok := params[PathMatchParam]; !ok {
			rerrors.New("R010").
				WithRoute(path, "").
				WithDetail("Missing param for " + routeMsg + ".").
				Wrap(err).
				Log(m.logger)
		}
		return ""
	}
	return filled
}
