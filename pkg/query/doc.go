// Package query converts between query strings and an ordered key/value
// mapping.
//
// A key maps to a single string, a list of strings (repeated keys), or null
// (a bare key with no "="). Key order is insertion order, so stringifying a
// parsed query reproduces the original ordering.
//
// Encoding follows RFC 3986 more strictly than url.QueryEscape: spaces become
// "%20", the characters ! ' ( ) * are escaped and commas are left alone.
//
//	q := query.Parse("tags=a&tags=b&flag")
//	q.Get("tags")   // ["a", "b"]
//	q.Get("flag")   // null
//	query.Stringify(q) // "?tags=a&tags=b&flag"
package query
