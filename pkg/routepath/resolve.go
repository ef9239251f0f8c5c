package routepath

import "strings"

// Parsed is a navigation string split into its three parts.
type Parsed struct {
	// Path is everything before "?" and "#".
	Path string

	// Query is the raw query string without the leading "?".
	Query string

	// Hash is the fragment including its leading "#", or empty.
	Hash string
}

// ResolvePath resolves relative against base.
//
// A relative path starting with "/" is returned unchanged. One starting with
// "?" or "#" is appended to base. Otherwise the last segment of base is
// dropped (unless appendPath is set and base does not end in "/"), the
// segments of relative are applied left to right ("." ignored, ".." pops one
// segment), and the result always starts with "/".
func ResolvePath(relative, base string, appendPath bool) string {
	if relative == "" {
		return base
	}
	switch relative[0] {
	case '/':
		return relative
	case '?', '#':
		return base + relative
	}

	stack := strings.Split(base, "/")

	// Drop the trailing segment unless appending to a "directory".
	if !appendPath || stack[len(stack)-1] == "" {
		stack = stack[:len(stack)-1]
	}

	for _, seg := range strings.Split(strings.TrimPrefix(relative, "/"), "/") {
		switch seg {
		case "..":
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case ".":
		default:
			stack = append(stack, seg)
		}
	}

	if len(stack) == 0 || stack[0] != "" {
		stack = append([]string{""}, stack...)
	}
	return strings.Join(stack, "/")
}

// ParsePath splits raw into path, query and hash. The hash is cut first so a
// "?" inside the fragment stays part of it.
func ParsePath(raw string) Parsed {
	var p Parsed
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		p.Hash = raw[i:]
		raw = raw[:i]
	}
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		p.Query = raw[i+1:]
		raw = raw[:i]
	}
	p.Path = raw
	return p
}

// CleanPath collapses every "//" into "/".
func CleanPath(path string) string {
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	return path
}

// NormalizeBase strips scheme and host from base, ensures a leading slash
// and removes the trailing one. An empty base becomes "".
func NormalizeBase(base string) string {
	if base == "" {
		return ""
	}
	for _, scheme := range []string{"http://", "https://"} {
		if strings.HasPrefix(base, scheme) {
			rest := base[len(scheme):]
			if i := strings.IndexByte(rest, '/'); i >= 0 {
				base = rest[i:]
			} else {
				base = ""
			}
			break
		}
	}
	if !strings.HasPrefix(base, "/") {
		base = "/" + base
	}
	return strings.TrimSuffix(base, "/")
}

// JoinHref builds the href for fullPath under base. In hash mode the full
// path is placed behind "#".
func JoinHref(base, fullPath string, hashMode bool) string {
	path := fullPath
	if hashMode {
		path = "#" + fullPath
	}
	if base == "" {
		return path
	}
	return CleanPath(base + "/" + path)
}

// StripBase removes base from the front of path. The result is never empty.
func StripBase(path, base string) string {
	if base != "" && strings.HasPrefix(path, base) {
		path = path[len(base):]
	}
	if path == "" || path[0] == '?' || path[0] == '#' {
		path = "/" + path
	}
	return path
}
