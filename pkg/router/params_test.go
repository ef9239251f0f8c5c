package router

import (
	"reflect"
	"testing"
)

func TestBindParamsString(t *testing.T) {
	type Params struct {
		Name string `param:"name"`
	}

	var p Params
	if err := BindParams(map[string]string{"name": "test"}, &p); err != nil {
		t.Fatalf("BindParams() error: %v", err)
	}
	if p.Name != "test" {
		t.Errorf("Name = %q, want %q", p.Name, "test")
	}
}

func TestBindParamsNumbers(t *testing.T) {
	type Params struct {
		ID    int     `param:"id"`
		Big   int64   `param:"big"`
		Count uint    `param:"count"`
		Ratio float64 `param:"ratio"`
		Flag  bool    `param:"flag"`
	}

	params := map[string]string{
		"id":    "123",
		"big":   "-9000000000",
		"count": "7",
		"ratio": "0.5",
		"flag":  "true",
	}

	var p Params
	if err := BindParams(params, &p); err != nil {
		t.Fatalf("BindParams() error: %v", err)
	}
	want := Params{ID: 123, Big: -9000000000, Count: 7, Ratio: 0.5, Flag: true}
	if p != want {
		t.Errorf("got %+v, want %+v", p, want)
	}
}

func TestBindParamsSlice(t *testing.T) {
	type Params struct {
		Rest []string `param:"pathMatch"`
	}

	tests := []struct {
		value string
		want  []string
	}{
		{"docs/guide/intro", []string{"docs", "guide", "intro"}},
		{"/a/", []string{"a"}},
		{"", nil},
	}

	for _, tt := range tests {
		var p Params
		if err := BindParams(map[string]string{"pathMatch": tt.value}, &p); err != nil {
			t.Fatalf("BindParams(%q) error: %v", tt.value, err)
		}
		if !reflect.DeepEqual(p.Rest, tt.want) {
			t.Errorf("BindParams(%q) = %#v, want %#v", tt.value, p.Rest, tt.want)
		}
	}
}

func TestBindParamsMissing(t *testing.T) {
	type Params struct {
		ID   int    `param:"id"`
		Name string `param:"name"`
	}

	var p Params
	if err := BindParams(map[string]string{"id": "1"}, &p); err != nil {
		t.Fatalf("BindParams() should not error on missing param: %v", err)
	}
	if p.ID != 1 || p.Name != "" {
		t.Errorf("got %+v", p)
	}
}

func TestBindParamsErrors(t *testing.T) {
	type Params struct {
		ID int `param:"id"`
	}

	var p Params
	if err := BindParams(map[string]string{"id": "abc"}, &p); err == nil {
		t.Error("BindParams() should error on invalid int")
	}
	if err := BindParams(map[string]string{"id": "1"}, p); err == nil {
		t.Error("BindParams() should error when target is not a pointer")
	}
	n := 3
	if err := BindParams(map[string]string{"id": "1"}, &n); err == nil {
		t.Error("BindParams() should error when target is not a struct")
	}
	if err := BindParams(map[string]string{"id": "1"}, nil); err != nil {
		t.Errorf("BindParams(nil) error: %v", err)
	}
}

func TestRouteBind(t *testing.T) {
	r := New([]RouteConfig{
		{Path: "/users/:id(\\d+)/files/*", Component: &Component{Name: "Files"}},
	})
	route := r.Match(Path("/users/42/files/a/b.txt"), nil)

	var p struct {
		ID   int      `param:"id"`
		Rest []string `param:"pathMatch"`
	}
	if err := route.Bind(&p); err != nil {
		t.Fatalf("Bind() error: %v", err)
	}
	if p.ID != 42 || !reflect.DeepEqual(p.Rest, []string{"a", "b.txt"}) {
		t.Errorf("got %+v", p)
	}
}

func TestFillParams(t *testing.T) {
	tests := []struct {
		path    string
		params  map[string]string
		want    string
		wantErr bool
	}{
		{"/users/:id", map[string]string{"id": "7"}, "/users/7", false},
		{"/users/:id", map[string]string{"id": "a b"}, "/users/a%20b", false},
		{"/users/:id?", nil, "/users", false},
		{"/files/*", map[string]string{"pathMatch": "a/b"}, "/files/a/b", false},
		{"/users/:id", nil, "", true},
		{"/users/:id(\\d+)", map[string]string{"id": "x"}, "", true},
	}

	for _, tt := range tests {
		got, err := FillParams(tt.path, tt.params)
		if (err != nil) != tt.wantErr {
			t.Errorf("FillParams(%q, %v) error = %v, wantErr %v", tt.path, tt.params, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("FillParams(%q, %v) = %q, want %q", tt.path, tt.params, got, tt.want)
		}
	}
}

func TestFillParamsDoesNotMutate(t *testing.T) {
	params := map[string]string{"pathMatch": "x"}
	if _, err := FillParams("/files/*", params); err != nil {
		t.Fatal(err)
	}
	if _, ok := params["0"]; ok {
		t.Error("FillParams added the index key to the caller's map")
	}
}
