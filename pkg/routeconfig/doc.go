// Package routeconfig loads route tables from declarative files.
//
// A route file lists routes by path with their name, component names,
// redirect, aliases and children. Component and guard names are resolved
// through a Registry, so the same file can be shared between a server and
// the tooling that inspects it:
//
//	routes:
//	  - path: /users/:id
//	    name: user
//	    component: UserPage
//	    beforeEnter: [requireAuth]
//	    children:
//	      - path: posts
//	        component: UserPosts
//
// JSON, YAML, TOML and HCL encodings are supported. In HCL each route is a
// block labeled with its path:
//
//	route "/users/:id" {
//	  name      = "user"
//	  component = "UserPage"
//	  route "posts" {
//	    component = "UserPosts"
//	  }
//	}
//
// Files are read from disk or, for "s3://bucket/key" locations, from S3.
package routeconfig
