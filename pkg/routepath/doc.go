// Package routepath implements the string algebra behind navigation paths.
//
// It resolves relative paths against a base, splits "path?query#hash"
// triples, cleans doubled slashes and joins a history base with a route's
// full path. It also vets navigation URLs that arrive from untrusted peers
// (remote history backends) before they reach the matcher.
//
//	routepath.ResolvePath("../b", "/a/x/y", false) // "/a/b"
//	routepath.ParsePath("/users?id=1#top")         // {"/users", "id=1", "#top"}
//	routepath.JoinHref("/app", "/users", false)    // "/app/users"
package routepath
