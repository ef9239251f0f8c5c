package router

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	rerrors "github.com/vango-dev/vrouter/internal/errors"
	"github.com/vango-dev/vrouter/pkg/pathpattern"
	"github.com/vango-dev/vrouter/pkg/routepath"
)

// Wildcard is the catch-all route path. It always sorts last.
const Wildcard = "*"

// Table holds the compiled route records: the priority-ordered path list and
// the path and name lookups. It is built once and only ever appended to.
type Table struct {
	mu       sync.RWMutex
	pathList []string
	pathMap  map[string]*RouteRecord
	nameMap  map[string]*RouteRecord

	logger   *slog.Logger
	warnings []*rerrors.RouteError
}

// NewTable compiles routes into a table. Configuration problems are logged
// as warnings and kept in Warnings; they never stop the build.
func NewTable(routes []RouteConfig, logger *slog.Logger) *Table {
	if logger == nil {
		logger = slog.Default()
	}
	t := &Table{
		pathMap: make(map[string]*RouteRecord),
		nameMap: make(map[string]*RouteRecord),
		logger:  logger,
	}
	t.Append(routes)
	return t
}

// Append compiles more routes into the table. Existing records are kept and
// wildcard paths are moved back to the end.
func (t *Table) Append(routes []RouteConfig) {
	t.mu.Lock()
	defer t.mu.Unlock()

	start := len(t.pathList)
	for _, route := range routes {
		t.addRecord(route, nil, "")
	}
	added := append([]string(nil), t.pathList[start:]...)

	t.sortWildcards()

	for _, path := range added {
		if path != "" && path[0] != '*' && path[0] != '/' {
			t.report(rerrors.New("R001").
				WithRoute(path, t.pathMap[path].Name).
				WithSuggestion("Prefix the path with \"/\" or nest it under a parent route"))
		}
	}
}

// AppendTo compiles routes as children of the record named parentName. It
// reports false, adding nothing, when no such record exists.
func (t *Table) AppendTo(parentName string, routes []RouteConfig) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	parent, ok := t.nameMap[parentName]
	if !ok {
		t.report(rerrors.New("R013").WithRoute("", parentName).
			WithDetail("Cannot add child routes to a route that does not exist."))
		return false
	}
	for _, route := range routes {
		matchAs := ""
		if parent.MatchAs != "" {
			matchAs = routepath.CleanPath(parent.MatchAs + "/" + route.Path)
		}
		t.addRecord(route, parent, matchAs)
	}
	t.sortWildcards()
	return true
}

// sortWildcards moves every "*" entry to the end, keeping their order.
func (t *Table) sortWildcards() {
	rest := t.pathList[:0:0]
	var wild []string
	for _, p := range t.pathList {
		if p == Wildcard {
			wild = append(wild, p)
			continue
		}
		rest = append(rest, p)
	}
	t.pathList = append(rest, wild...)
}

func (t *Table) addRecord(route RouteConfig, parent *RouteRecord, matchAs string) {
	path := normalizePath(route.Path, parent, route.Strict)

	record := &RouteRecord{
		Path:        path,
		Name:        route.Name,
		Parent:      parent,
		Redirect:    route.Redirect,
		MatchAs:     matchAs,
		BeforeEnter: route.BeforeEnter,
		Meta:        route.Meta,
		components:  make(map[string]*Component),
		props:       make(map[string]Props),
		instances:   make(map[string]any),
	}
	if record.Meta == nil {
		record.Meta = map[string]any{}
	}
	switch {
	case route.Components != nil:
		for slot, c := range route.Components {
			record.components[slot] = c
		}
	case route.Component != nil:
		record.components[DefaultSlot] = route.Component
	}
	for slot, p := range route.Props {
		record.props[slot] = p
	}

	pattern, err := pathpattern.Compile(path, pathpattern.Options{
		Sensitive: route.CaseSensitive,
		Strict:    route.Strict,
	})
	if err != nil {
		t.report(rerrors.New("R007").WithRoute(path, route.Name).Wrap(err))
	} else {
		record.Pattern = pattern
		for _, key := range pattern.DuplicateKeys() {
			t.report(rerrors.New("R006").WithRoute(path, route.Name).
				WithSuggestion("Rename one of the \":" + key + "\" params"))
		}
	}

	if matchAs == "" && len(record.components) == 0 && route.Redirect == nil && len(route.Children) == 0 {
		t.report(rerrors.New("R008").WithRoute(path, route.Name))
	}

	if len(route.Children) > 0 {
		if route.Name != "" && route.Redirect == nil && hasDefaultChild(route.Children) {
			t.report(rerrors.New("R005").WithRoute(path, route.Name).
				WithSuggestion("Remove the name from this route and name its default child instead"))
		}
		for _, child := range route.Children {
			childMatchAs := ""
			if matchAs != "" {
				childMatchAs = routepath.CleanPath(matchAs + "/" + child.Path)
			}
			t.addRecord(child, record, childMatchAs)
		}
	}

	if _, exists := t.pathMap[record.Path]; !exists {
		t.pathList = append(t.pathList, record.Path)
		t.pathMap[record.Path] = record
	} else {
		t.report(rerrors.New("R002").WithRoute(record.Path, route.Name))
	}

	for _, alias := range route.Alias {
		if alias == route.Path {
			t.report(rerrors.New("R004").WithRoute(path, route.Name).
				WithSuggestion("Remove the alias"))
			continue
		}
		target := record.Path
		if target == "" {
			target = "/"
		}
		t.addRecord(RouteConfig{Path: alias, Children: route.Children}, parent, target)
	}

	if route.Name != "" {
		if _, taken := t.nameMap[route.Name]; !taken {
			t.nameMap[route.Name] = record
		} else if matchAs == "" {
			t.report(rerrors.New("R003").WithRoute(record.Path, route.Name))
		}
	}
}

func (t *Table) report(e *rerrors.RouteError) {
	t.warnings = append(t.warnings, e)
	e.Log(t.logger)
}

// PathList returns the record paths in match priority order.
func (t *Table) PathList() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]string(nil), t.pathList...)
}

// Records returns the records in match priority order.
func (t *Table) Records() []*RouteRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*RouteRecord, len(t.pathList))
	for i, p := range t.pathList {
		out[i] = t.pathMap[p]
	}
	return out
}

// Lookup returns the record registered for an exact path pattern.
func (t *Table) Lookup(path string) (*RouteRecord, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r, ok := t.pathMap[path]
	return r, ok
}

// Named returns the record registered under name.
func (t *Table) Named(name string) (*RouteRecord, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r, ok := t.nameMap[name]
	return r, ok
}

// Names returns the registered route names, sorted.
func (t *Table) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.nameMap))
	for n := range t.nameMap {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Warnings returns the diagnostics reported while building the table.
func (t *Table) Warnings() []*rerrors.RouteError {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]*rerrors.RouteError(nil), t.warnings...)
}

// scan returns the first record, in priority order, whose pattern matches
// path, along with its raw captures.
func (t *Table) scan(path string) (*RouteRecord, []pathpattern.Capture) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, p := range t.pathList {
		record := t.pathMap[p]
		if record.Pattern == nil {
			continue
		}
		if caps, ok := record.Pattern.Exec(path); ok {
			return record, caps
		}
	}
	return nil, nil
}

// normalizePath prefixes path with the parent's path unless it is absolute.
// Without strict a trailing slash is dropped, so a top-level "/" becomes the
// empty root pattern, which matches "/".
func normalizePath(path string, parent *RouteRecord, strict bool) string {
	if !strict {
		path = strings.TrimSuffix(path, "/")
	}
	if strings.HasPrefix(path, "/") || parent == nil {
		return path
	}
	return routepath.CleanPath(parent.Path + "/" + path)
}

func hasDefaultChild(children []RouteConfig) bool {
	for _, c := range children {
		if c.Path == "" || c.Path == "/" {
			return true
		}
	}
	return false
}

func sortedSlots(m map[string]*Component) []string {
	slots := make([]string, 0, len(m))
	for k := range m {
		slots = append(slots, k)
	}
	sort.Strings(slots)
	return slots
}
