package query

import "strings"

// item is one occurrence of a key. null marks a bare key.
type item struct {
	s    string
	null bool
}

// Value is the value side of a query entry.
//
// The zero Value is "undefined": it is dropped when stringified. Null() is a
// bare key. String and Strings build scalar and list values; a list may hold
// null items when a repeated key appeared without "=".
type Value struct {
	items []item
	list  bool
}

// String returns a scalar value.
func String(s string) Value {
	return Value{items: []item{{s: s}}}
}

// Strings returns a list value.
func Strings(ss ...string) Value {
	items := make([]item, len(ss))
	for i, s := range ss {
		items[i] = item{s: s}
	}
	return Value{items: items, list: true}
}

// Null returns a bare-key value.
func Null() Value {
	return Value{items: []item{{null: true}}}
}

// IsNull reports whether v is a single bare key.
func (v Value) IsNull() bool {
	return !v.list && len(v.items) == 1 && v.items[0].null
}

// IsUndefined reports whether v carries nothing at all.
func (v Value) IsUndefined() bool {
	return !v.list && len(v.items) == 0
}

// IsList reports whether v holds a list (even a one-element one).
func (v Value) IsList() bool {
	return v.list
}

// Len returns the number of occurrences in v.
func (v Value) Len() int {
	return len(v.items)
}

// First returns the first non-null string in v.
func (v Value) First() (string, bool) {
	for _, it := range v.items {
		if !it.null {
			return it.s, true
		}
	}
	return "", false
}

// All returns every non-null string in v.
func (v Value) All() []string {
	out := make([]string, 0, len(v.items))
	for _, it := range v.items {
		if !it.null {
			out = append(out, it.s)
		}
	}
	return out
}

// add appends one occurrence, promoting a scalar to a list.
func (v Value) add(it item) Value {
	items := make([]item, len(v.items), len(v.items)+1)
	copy(items, v.items)
	return Value{items: append(items, it), list: true}
}

// clone returns an independent copy of v.
func (v Value) clone() Value {
	if v.items == nil {
		return Value{list: v.list}
	}
	items := make([]item, len(v.items))
	copy(items, v.items)
	return Value{items: items, list: v.list}
}

// Equal compares values by their string form. A one-element list equals the
// scalar it holds, and null compares equal to null only.
func (v Value) Equal(o Value) bool {
	if len(v.items) != len(o.items) {
		return false
	}
	for i := range v.items {
		if v.items[i] != o.items[i] {
			return false
		}
	}
	return true
}

// String renders v for diagnostics.
func (v Value) String() string {
	if v.IsUndefined() {
		return "undefined"
	}
	parts := make([]string, len(v.items))
	for i, it := range v.items {
		if it.null {
			parts[i] = "null"
		} else {
			parts[i] = it.s
		}
	}
	if v.list {
		return "[" + strings.Join(parts, ",") + "]"
	}
	return parts[0]
}
