package query

import "testing"

func TestQueryOrderAndDelete(t *testing.T) {
	q := New()
	q.Set("b", String("1"))
	q.Set("a", String("2"))
	q.Set("b", String("3"))

	if got := q.Keys(); got[0] != "b" || got[1] != "a" {
		t.Fatalf("keys = %v, want [b a]", got)
	}

	q.Del("b")
	if q.Has("b") || q.Len() != 1 {
		t.Errorf("after Del: keys = %v", q.Keys())
	}
	q.Del("missing")
}

func TestQueryCloneIsIndependent(t *testing.T) {
	q := New()
	q.Set("a", Strings("1", "2"))

	c := q.Clone()
	c.Set("a", String("x"))
	c.Set("b", Null())

	if v, _ := q.Get("a"); v.String() != "[1,2]" {
		t.Errorf("original mutated: a = %s", v)
	}
	if q.Has("b") {
		t.Error("original gained key b")
	}
}

func TestQueryEqual(t *testing.T) {
	a := New()
	a.Set("x", String("1"))
	a.Set("y", Strings("2"))

	b := New()
	b.Set("y", String("2"))
	b.Set("x", String("1"))

	if !a.Equal(b) || !b.Equal(a) {
		t.Error("expected order-independent equality with one-element list")
	}

	b.Set("z", Null())
	if a.Equal(b) {
		t.Error("expected inequality after extra key")
	}

	var nilQuery *Query
	if !nilQuery.Equal(New()) {
		t.Error("nil query should equal empty query")
	}

	n1, n2 := New(), New()
	n1.Set("k", Null())
	n2.Set("k", String(""))
	if n1.Equal(n2) {
		t.Error("null should not equal empty string")
	}
}

func TestQueryIncludes(t *testing.T) {
	cur := FromMap(map[string]string{"a": "1", "b": "2"})
	if !cur.Includes(FromMap(map[string]string{"a": "x"})) {
		t.Error("expected a to be included")
	}
	if cur.Includes(FromMap(map[string]string{"c": "1"})) {
		t.Error("did not expect c to be included")
	}
}

func TestValueAccessors(t *testing.T) {
	v := Strings("a", "b")
	if s, ok := v.First(); !ok || s != "a" {
		t.Errorf("First = %q, %v", s, ok)
	}
	if got := v.All(); len(got) != 2 {
		t.Errorf("All = %v", got)
	}
	if _, ok := Null().First(); ok {
		t.Error("null has no first string")
	}
	if !(Value{}).IsUndefined() {
		t.Error("zero value should be undefined")
	}
}
