// Package errors provides coded diagnostics for route tables, navigation and
// the vrouter CLI.
//
// Most problems a route table can have are not fatal: a duplicate path, a
// named route that shadows its default child or a parameter that cannot be
// filled all degrade gracefully. They are still worth surfacing, so each has
// a registered code (e.g. "R002") with a message, a longer explanation and a
// documentation link.
//
// # Categories
//
//   - config: route-table construction warnings
//   - params: parameter substitution failures
//   - redirect: redirect and alias resolution failures
//   - source: loading declarative route files
//   - protocol: remote history backend frames
//   - cli: command-line usage
//
// # Usage
//
//	errors.New("R002").
//	    WithRoute("/users/:id", "user").
//	    WithSuggestion("Remove the second registration or give it a distinct path").
//	    Log(logger)
//
// Log writes the diagnostic at WARN level through log/slog. Format renders it
// for a terminal:
//
//	WARN R002: Duplicate route path
//
//	  route /users/:id (user)
//
//	  A route with this path is already registered. The first
//	  registration wins; later ones are ignored.
//
//	  Hint: Remove the second registration or give it a distinct path
//
//	  Learn more: https://vrouter.dev/docs/diagnostics/R002
package errors
