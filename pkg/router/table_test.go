package router

import (
	"reflect"
	"testing"
)

func TestTableWildcardLast(t *testing.T) {
	table := NewTable([]RouteConfig{
		{Path: "*", Component: comp("NotFound")},
		{Path: "/a", Component: comp("A")},
	}, discardLogger())

	if got, want := table.PathList(), []string{"/a", "*"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("PathList() = %v, want %v", got, want)
	}

	table.Append([]RouteConfig{{Path: "/b", Component: comp("B")}})
	if got, want := table.PathList(), []string{"/a", "/b", "*"}; !reflect.DeepEqual(got, want) {
		t.Errorf("PathList() after Append = %v, want %v", got, want)
	}
}

func TestTableNestedPaths(t *testing.T) {
	table := NewTable([]RouteConfig{
		{Path: "/parent", Component: comp("Parent"), Children: []RouteConfig{
			{Path: "child", Component: comp("Child")},
			{Path: "/abs", Component: comp("Abs")},
			{Path: "", Component: comp("Default")},
		}},
	}, discardLogger())

	want := []string{"/parent/child", "/abs", "/parent/", "/parent"}
	if got := table.PathList(); !reflect.DeepEqual(got, want) {
		t.Fatalf("PathList() = %v, want %v", got, want)
	}

	child, ok := table.Lookup("/parent/child")
	if !ok {
		t.Fatal("Lookup(/parent/child) failed")
	}
	parent, _ := table.Lookup("/parent")
	if child.Parent != parent {
		t.Error("child record does not point at its parent")
	}
	if child.Component(DefaultSlot).Name != "Child" {
		t.Errorf("child component = %q", child.Component(DefaultSlot).Name)
	}
}

func TestTableFirstRegistrationWins(t *testing.T) {
	table := NewTable([]RouteConfig{
		{Path: "/a", Name: "first", Component: comp("A1")},
		{Path: "/a", Name: "second", Component: comp("A2")},
	}, discardLogger())

	record, _ := table.Lookup("/a")
	if record.Name != "first" {
		t.Errorf("Lookup(/a).Name = %q, want first", record.Name)
	}
	if len(table.PathList()) != 1 {
		t.Errorf("PathList() = %v", table.PathList())
	}
	if !hasCode(t, table.Warnings(), "R002") {
		t.Errorf("warnings = %v, want R002", warningCodes(table.Warnings()))
	}
}

func TestTableWarnings(t *testing.T) {
	tests := []struct {
		name   string
		routes []RouteConfig
		code   string
	}{
		{"missing leading slash", []RouteConfig{{Path: "a", Component: comp("A")}}, "R001"},
		{"duplicate name", []RouteConfig{
			{Path: "/a", Name: "x", Component: comp("A")},
			{Path: "/b", Name: "x", Component: comp("B")},
		}, "R003"},
		{"alias equals path", []RouteConfig{{Path: "/a", Alias: []string{"/a"}, Component: comp("A")}}, "R004"},
		{"named parent with default child", []RouteConfig{
			{Path: "/p", Name: "p", Component: comp("P"), Children: []RouteConfig{{Path: "", Component: comp("D")}}},
		}, "R005"},
		{"duplicate param", []RouteConfig{{Path: "/:id/:id", Component: comp("A")}}, "R006"},
		{"invalid pattern", []RouteConfig{{Path: "/:id([)", Component: comp("A")}}, "R007"},
		{"no component", []RouteConfig{{Path: "/empty"}}, "R008"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := NewTable(tt.routes, discardLogger())
			if !hasCode(t, table.Warnings(), tt.code) {
				t.Errorf("warnings = %v, want %s", warningCodes(table.Warnings()), tt.code)
			}
		})
	}
}

func TestTableCleanConfigHasNoWarnings(t *testing.T) {
	table := NewTable([]RouteConfig{
		{Path: "/", Component: comp("Home")},
		{Path: "/users/:id", Name: "user", Component: comp("User"), Alias: []string{"/u/:id"}},
		{Path: "/old", Redirect: RedirectTo("/")},
		{Path: "*", Component: comp("NotFound")},
	}, discardLogger())

	if w := table.Warnings(); len(w) != 0 {
		t.Errorf("unexpected warnings %v", warningCodes(w))
	}
}

func TestTableAliasRecords(t *testing.T) {
	table := NewTable([]RouteConfig{
		{Path: "/a", Name: "a", Component: comp("A"), Alias: []string{"/b"}},
	}, discardLogger())

	alias, ok := table.Lookup("/b")
	if !ok {
		t.Fatal("alias record /b missing")
	}
	if alias.MatchAs != "/a" {
		t.Errorf("MatchAs = %q, want /a", alias.MatchAs)
	}
	if named, _ := table.Named("a"); named.Path != "/a" {
		t.Errorf("Named(a).Path = %q, want /a", named.Path)
	}
}

func TestTableAppendTo(t *testing.T) {
	table := NewTable([]RouteConfig{
		{Path: "/admin", Name: "admin", Component: comp("Admin")},
		{Path: "*", Component: comp("NotFound")},
	}, discardLogger())

	if !table.AppendTo("admin", []RouteConfig{{Path: "users", Component: comp("Users")}}) {
		t.Fatal("AppendTo(admin) = false")
	}
	if got, want := table.PathList(), []string{"/admin", "/admin/users", "*"}; !reflect.DeepEqual(got, want) {
		t.Errorf("PathList() = %v, want %v", got, want)
	}
	users, _ := table.Lookup("/admin/users")
	if users.Parent == nil || users.Parent.Name != "admin" {
		t.Error("appended child not attached to admin")
	}

	if table.AppendTo("missing", []RouteConfig{{Path: "x", Component: comp("X")}}) {
		t.Error("AppendTo(missing) = true")
	}
}

func TestTableComponentsAndProps(t *testing.T) {
	table := NewTable([]RouteConfig{
		{
			Path:       "/dash",
			Components: map[string]*Component{"default": comp("Main"), "side": comp("Side")},
			Props:      map[string]Props{"side": {Static: map[string]any{"collapsed": true}}},
		},
	}, discardLogger())

	record, _ := table.Lookup("/dash")
	if got := record.Slots(); !reflect.DeepEqual(got, []string{"default", "side"}) {
		t.Errorf("Slots() = %v", got)
	}
	if got := record.Props("side").Resolve(nil); got["collapsed"] != true {
		t.Errorf("side props = %v", got)
	}
}
