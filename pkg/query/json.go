package query

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes a scalar as a string, null as null and a list as an
// array whose bare items are null. Undefined encodes as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsUndefined() {
		return []byte("null"), nil
	}
	if !v.list {
		if v.items[0].null {
			return []byte("null"), nil
		}
		return json.Marshal(v.items[0].s)
	}
	out := make([]*string, len(v.items))
	for i, it := range v.items {
		if !it.null {
			s := it.s
			out[i] = &s
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts a string, null or an array of strings and nulls.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = Null()
		return nil
	case len(data) > 0 && data[0] == '[':
		var raw []*string
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("query value: %w", err)
		}
		items := make([]item, len(raw))
		for i, s := range raw {
			if s == nil {
				items[i] = item{null: true}
			} else {
				items[i] = item{s: *s}
			}
		}
		*v = Value{items: items, list: true}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("query value: %w", err)
	}
	*v = String(s)
	return nil
}

// MarshalJSON encodes q as an object in key order. Undefined values are
// left out.
func (q *Query) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, k := range q.Keys() {
		v, _ := q.Get(k)
		if v.IsUndefined() {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := v.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object, keeping its key order.
func (q *Query) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	if tok == nil {
		*q = Query{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("query: expected object, got %v", tok)
	}

	out := Query{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("query: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("query: expected key, got %v", tok)
		}
		var v Value
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("query key %q: %w", key, err)
		}
		out.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("query: %w", err)
	}
	*q = out
	return nil
}
