package query

// Query is an ordered mapping from key to Value. The zero value is an empty
// query ready to use. A Query is not safe for concurrent mutation.
type Query struct {
	keys   []string
	values map[string]Value
}

// New returns an empty query.
func New() *Query {
	return &Query{}
}

// FromMap builds a query from m. Keys are added in the order given by keys;
// when keys is nil, m is iterated in sorted key order.
func FromMap(m map[string]string, keys ...string) *Query {
	q := New()
	if keys == nil {
		keys = sortedKeys(m)
	}
	for _, k := range keys {
		if v, ok := m[k]; ok {
			q.Set(k, String(v))
		}
	}
	return q
}

// Set stores v under key, keeping the key's original position if present.
func (q *Query) Set(key string, v Value) {
	if q.values == nil {
		q.values = make(map[string]Value)
	}
	if _, ok := q.values[key]; !ok {
		q.keys = append(q.keys, key)
	}
	q.values[key] = v
}

// Add records another occurrence of key. The first occurrence is stored as
// a scalar; later ones promote the value to a list.
func (q *Query) Add(key string, v Value) {
	existing, ok := q.Get(key)
	if !ok {
		q.Set(key, v)
		return
	}
	for _, it := range v.items {
		existing = existing.add(it)
	}
	q.Set(key, existing)
}

// Get returns the value stored under key.
func (q *Query) Get(key string) (Value, bool) {
	if q == nil || q.values == nil {
		return Value{}, false
	}
	v, ok := q.values[key]
	return v, ok
}

// Has reports whether key is present.
func (q *Query) Has(key string) bool {
	_, ok := q.Get(key)
	return ok
}

// Del removes key.
func (q *Query) Del(key string) {
	if q == nil || q.values == nil {
		return
	}
	if _, ok := q.values[key]; !ok {
		return
	}
	delete(q.values, key)
	for i, k := range q.keys {
		if k == key {
			q.keys = append(q.keys[:i:i], q.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (q *Query) Keys() []string {
	if q == nil {
		return nil
	}
	out := make([]string, len(q.keys))
	copy(out, q.keys)
	return out
}

// Len returns the number of keys.
func (q *Query) Len() int {
	if q == nil {
		return 0
	}
	return len(q.keys)
}

// Clone returns a deep copy of q. Cloning nil yields an empty query.
func (q *Query) Clone() *Query {
	out := New()
	if q == nil {
		return out
	}
	for _, k := range q.keys {
		out.Set(k, q.values[k].clone())
	}
	return out
}

// Merge copies every entry of other into q; entries of other win.
func (q *Query) Merge(other *Query) {
	if other == nil {
		return
	}
	for _, k := range other.keys {
		q.Set(k, other.values[k].clone())
	}
}

// Equal reports whether q and o hold the same keys with equal values,
// regardless of order. A nil query equals an empty one.
func (q *Query) Equal(o *Query) bool {
	if q.Len() != o.Len() {
		return false
	}
	if q.Len() == 0 {
		return true
	}
	for _, k := range q.keys {
		ov, ok := o.Get(k)
		if !ok || !q.values[k].Equal(ov) {
			return false
		}
	}
	return true
}

// Includes reports whether every key of target is present in q.
func (q *Query) Includes(target *Query) bool {
	for _, k := range target.Keys() {
		if !q.Has(k) {
			return false
		}
	}
	return true
}

// Map flattens q to its first non-null string per key.
func (q *Query) Map() map[string]string {
	out := make(map[string]string, q.Len())
	if q == nil {
		return out
	}
	for _, k := range q.keys {
		if s, ok := q.values[k].First(); ok {
			out[k] = s
		} else {
			out[k] = ""
		}
	}
	return out
}
