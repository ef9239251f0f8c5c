package router

import (
	"encoding/json"
	"strings"

	"github.com/vango-dev/vrouter/pkg/query"
)

// Route is an immutable snapshot of a resolved location. Routes are shared
// between goroutines and must not be modified.
type Route struct {
	Name   string
	Path   string
	Hash   string
	Query  *query.Query
	Params map[string]string
	Meta   map[string]any

	// FullPath is Path, the encoded query and Hash.
	FullPath string

	// Matched is the record chain from the root to the matched leaf. It is
	// empty when nothing matched.
	Matched []*RouteRecord

	// RedirectedFrom is the full path originally asked for when the route
	// was reached through a redirect.
	RedirectedFrom string
}

// Start is the route current before the first navigation commits. It is
// compared by identity.
var Start = createRoute(nil, Location{Path: "/"}, nil, query.Stringify)

// createRoute snapshots record and loc. The query and params are copied.
func createRoute(record *RouteRecord, loc Location, redirectedFrom *Location, stringify query.Stringifier) *Route {
	route := &Route{
		Name:     loc.Name,
		Path:     loc.Path,
		Hash:     loc.Hash,
		Query:    loc.Query.Clone(),
		Params:   copyParams(loc.Params),
		Meta:     map[string]any{},
		FullPath: fullPath(loc, stringify),
		Matched:  formatMatch(record),
	}
	if route.Path == "" {
		route.Path = "/"
	}
	if route.Params == nil {
		route.Params = map[string]string{}
	}
	if record != nil {
		if route.Name == "" {
			route.Name = record.Name
		}
		if record.Meta != nil {
			route.Meta = record.Meta
		}
	}
	if redirectedFrom != nil {
		route.RedirectedFrom = fullPath(*redirectedFrom, stringify)
	}
	return route
}

// formatMatch returns the ancestor chain of record, root first.
func formatMatch(record *RouteRecord) []*RouteRecord {
	var chain []*RouteRecord
	for r := record; r != nil; r = r.Parent {
		chain = append(chain, r)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

func fullPath(loc Location, stringify query.Stringifier) string {
	if stringify == nil {
		stringify = query.Stringify
	}
	path := loc.Path
	if path == "" {
		path = "/"
	}
	return path + stringify(loc.Query) + loc.Hash
}

func copyParams(params map[string]string) map[string]string {
	if params == nil {
		return nil
	}
	out := make(map[string]string, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}

// Leaf returns the deepest matched record, or nil.
func (r *Route) Leaf() *RouteRecord {
	if len(r.Matched) == 0 {
		return nil
	}
	return r.Matched[len(r.Matched)-1]
}

// Components returns the components of every matched record, root first and
// slots in name order.
func (r *Route) Components() []*Component {
	var out []*Component
	for _, record := range r.Matched {
		for _, slot := range record.Slots() {
			out = append(out, record.Component(slot))
		}
	}
	return out
}

// PropsFor resolves the props of slot at depth in the matched chain.
func (r *Route) PropsFor(depth int, slot string) map[string]any {
	if depth < 0 || depth >= len(r.Matched) {
		return nil
	}
	return r.Matched[depth].Props(slot).Resolve(r)
}

func (r *Route) String() string {
	return r.FullPath
}

type jsonRoute struct {
	Name           string            `json:"name,omitempty"`
	Path           string            `json:"path"`
	Hash           string            `json:"hash,omitempty"`
	Query          *query.Query      `json:"query"`
	Params         map[string]string `json:"params"`
	Meta           map[string]any    `json:"meta,omitempty"`
	FullPath       string            `json:"fullPath"`
	Matched        []string          `json:"matched"`
	RedirectedFrom string            `json:"redirectedFrom,omitempty"`
}

// MarshalJSON encodes the route with its matched chain as record paths.
func (r *Route) MarshalJSON() ([]byte, error) {
	matched := make([]string, len(r.Matched))
	for i, rec := range r.Matched {
		matched[i] = rec.Path
	}
	return json.Marshal(jsonRoute{
		Name:           r.Name,
		Path:           r.Path,
		Hash:           r.Hash,
		Query:          r.Query,
		Params:         r.Params,
		Meta:           r.Meta,
		FullPath:       r.FullPath,
		Matched:        matched,
		RedirectedFrom: r.RedirectedFrom,
	})
}

// IsSameRoute reports whether a and b describe the same location: equal
// paths ignoring one trailing slash, or equal names and params, plus equal
// hash and query. Start only equals itself.
func IsSameRoute(a, b *Route) bool {
	if a == Start || b == Start {
		return a == b
	}
	if a == nil || b == nil {
		return false
	}
	switch {
	case a.Path != "" && b.Path != "":
		return strings.TrimSuffix(a.Path, "/") == strings.TrimSuffix(b.Path, "/") &&
			a.Hash == b.Hash &&
			a.Query.Equal(b.Query)
	case a.Name != "" && b.Name != "":
		return a.Name == b.Name &&
			a.Hash == b.Hash &&
			a.Query.Equal(b.Query) &&
			paramsEqual(a.Params, b.Params)
	}
	return false
}

func paramsEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if w, ok := b[k]; !ok || w != v {
			return false
		}
	}
	return true
}

// IsIncludedRoute reports whether current is target or lies below it: its
// path starts with target's, the hash agrees when target has one and every
// query key of target is present.
func IsIncludedRoute(current, target *Route) bool {
	return strings.HasPrefix(withTrailingSlash(current.Path), withTrailingSlash(target.Path)) &&
		(target.Hash == "" || current.Hash == target.Hash) &&
		current.Query.Includes(target.Query)
}

func withTrailingSlash(path string) string {
	return strings.TrimSuffix(path, "/") + "/"
}
