// Package pathpattern compiles route path patterns into regular expressions
// and back into concrete paths.
//
// Supported syntax:
//
//	/users/:id          named parameter, one segment
//	/users/:id?         optional parameter
//	/files/:path*       zero or more segments
//	/files/:path+       one or more segments
//	/items/:id(\d+)     parameter with a custom pattern
//	/legacy/(.*)        unnamed group, keyed by its index
//	/docs/*             wildcard, keyed by its index
//	/a\:b               escaped literal
//
// Matching is case-insensitive unless Options.Sensitive is set, and a single
// trailing slash is tolerated unless Options.Strict is set.
//
//	p, _ := pathpattern.Compile("/users/:id", pathpattern.Options{})
//	p.Match("/users/42")                     // map[id:42], true
//	p.Fill(map[string]string{"id": "7"})     // "/users/7", nil
package pathpattern
