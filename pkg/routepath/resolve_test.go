package routepath

import "testing"

func TestResolvePath(t *testing.T) {
	tests := []struct {
		name     string
		relative string
		base     string
		append   bool
		want     string
	}{
		{"absolute", "/b", "/a", false, "/b"},
		{"sibling", "b", "/a", false, "/b"},
		{"sibling nested", "c", "/a/b", false, "/a/c"},
		{"append", "c", "/a/b", true, "/a/b/c"},
		{"append to trailing slash", "c", "/a/b/", true, "/a/b/c"},
		{"trailing slash without append", "c", "/a/b/", false, "/a/b/c"},
		{"parent", "../c", "/a/b/x", false, "/a/c"},
		{"dot", "./c", "/a/b", false, "/a/c"},
		{"climb past root", "../../../c", "/a", false, "/c"},
		{"query only", "?x=1", "/a/b", false, "/a/b?x=1"},
		{"hash only", "#top", "/a", false, "/a#top"},
		{"root base", "b", "/", false, "/b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolvePath(tt.relative, tt.base, tt.append); got != tt.want {
				t.Errorf("ResolvePath(%q, %q, %v) = %q, want %q", tt.relative, tt.base, tt.append, got, tt.want)
			}
		})
	}
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		input string
		want  Parsed
	}{
		{"/a", Parsed{Path: "/a"}},
		{"/a?x=1", Parsed{Path: "/a", Query: "x=1"}},
		{"/a#h", Parsed{Path: "/a", Hash: "#h"}},
		{"/a?x=1#h", Parsed{Path: "/a", Query: "x=1", Hash: "#h"}},
		{"/a#h?x=1", Parsed{Path: "/a", Hash: "#h?x=1"}},
		{"?x=1", Parsed{Query: "x=1"}},
		{"", Parsed{}},
	}

	for _, tt := range tests {
		if got := ParsePath(tt.input); got != tt.want {
			t.Errorf("ParsePath(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}

func TestCleanPath(t *testing.T) {
	if got := CleanPath("/a//b///c"); got != "/a/b/c" {
		t.Errorf("CleanPath = %q, want %q", got, "/a/b/c")
	}
}

func TestNormalizeBase(t *testing.T) {
	tests := map[string]string{
		"":                        "",
		"/":                       "",
		"app":                     "/app",
		"/app/":                   "/app",
		"https://example.com/app": "/app",
		"http://example.com":      "",
	}
	for in, want := range tests {
		if got := NormalizeBase(in); got != want {
			t.Errorf("NormalizeBase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestJoinHref(t *testing.T) {
	if got := JoinHref("/app", "/users?x=1", false); got != "/app/users?x=1" {
		t.Errorf("history href = %q", got)
	}
	if got := JoinHref("/app", "/users", true); got != "/app/#/users" {
		t.Errorf("hash href = %q", got)
	}
	if got := JoinHref("", "/users", false); got != "/users" {
		t.Errorf("no base href = %q", got)
	}
}

func TestStripBase(t *testing.T) {
	tests := []struct{ path, base, want string }{
		{"/app/users", "/app", "/users"},
		{"/app", "/app", "/"},
		{"/app?x=1", "/app", "/?x=1"},
		{"/other", "/app", "/other"},
		{"/users", "", "/users"},
	}
	for _, tt := range tests {
		if got := StripBase(tt.path, tt.base); got != tt.want {
			t.Errorf("StripBase(%q, %q) = %q, want %q", tt.path, tt.base, got, tt.want)
		}
	}
}
