package query

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"unicode/utf8"
)

// Parser decodes a raw query string.
type Parser func(raw string) (*Query, error)

// Stringifier encodes a query, including the leading "?" when non-empty.
type Stringifier func(q *Query) string

// Parse decodes raw. Leading "?", "#" or "&" and surrounding space are
// ignored. "+" decodes to a space, a bare key decodes to null and repeated
// keys are promoted to lists. Malformed escapes are kept verbatim.
func Parse(raw string) *Query {
	q, _ := parse(raw, false)
	return q
}

// ParseStrict is Parse as a Parser, except that a malformed escape or an
// escape that decodes to invalid UTF-8 fails the whole query.
func ParseStrict(raw string) (*Query, error) {
	return parse(raw, true)
}

func parse(raw string, strict bool) (*Query, error) {
	q := New()

	raw = strings.TrimSpace(raw)
	if raw != "" && (raw[0] == '?' || raw[0] == '#' || raw[0] == '&') {
		raw = raw[1:]
	}
	if raw == "" {
		return q, nil
	}

	for _, param := range strings.Split(raw, "&") {
		param = strings.ReplaceAll(param, "+", " ")
		key, val, hasVal := strings.Cut(param, "=")
		k, err := decode(key, strict)
		if err != nil {
			return nil, err
		}
		it := item{null: true}
		if hasVal {
			v, err := decode(val, strict)
			if err != nil {
				return nil, err
			}
			it = item{s: v}
		}
		q.Add(k, Value{items: []item{it}})
	}
	return q, nil
}

// Resolve parses raw with parse (Parse when nil) and overlays extra on the
// result; extra wins on key collisions. A parser error is passed to report
// and the parsed part is treated as empty.
func Resolve(raw string, extra *Query, parse Parser, report func(error)) *Query {
	if parse == nil {
		parse = ParseStrict
	}
	parsed, err := parse(raw)
	if err != nil || parsed == nil {
		if err != nil && report != nil {
			report(fmt.Errorf("parse query %q: %w", raw, err))
		}
		parsed = New()
	}
	parsed.Merge(extra)
	return parsed
}

// Stringify encodes q with a leading "?", or returns "" when nothing would be
// written. Undefined values are skipped, null items become bare keys and
// lists become repeated key=value pairs.
func Stringify(q *Query) string {
	if q.Len() == 0 {
		return ""
	}
	parts := make([]string, 0, q.Len())
	for _, k := range q.keys {
		v := q.values[k]
		key := Encode(k)
		pairs := make([]string, 0, len(v.items))
		for _, it := range v.items {
			if it.null {
				pairs = append(pairs, key)
			} else {
				pairs = append(pairs, key+"="+Encode(it.s))
			}
		}
		if len(pairs) > 0 {
			parts = append(parts, strings.Join(pairs, "&"))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "?" + strings.Join(parts, "&")
}

// Encode escapes s like encodeURIComponent, additionally escaping ! ' ( ) *
// and leaving commas readable.
func Encode(s string) string {
	// QueryEscape already escapes the reserved set; it only differs in using
	// "+" for spaces and escaping commas.
	escaped := strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
	return strings.ReplaceAll(escaped, "%2C", ",")
}

// decode percent-decodes s. Malformed input is returned unchanged unless
// strict is set.
func decode(s string, strict bool) (string, error) {
	out, err := url.PathUnescape(s)
	if err == nil && !utf8.ValidString(out) {
		err = fmt.Errorf("invalid UTF-8 in %q", s)
	}
	if err != nil {
		if strict {
			return "", err
		}
		return s, nil
	}
	return out, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
