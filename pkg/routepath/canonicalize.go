package routepath

import (
	"errors"
	"strings"
)

// Navigation URL validation errors.
var (
	ErrInvalidPath          = errors.New("invalid path")
	ErrAbsoluteURL          = errors.New("absolute URL not allowed")
	ErrBackslashInPath      = errors.New("path contains backslash")
	ErrNullByteInPath       = errors.New("path contains null byte")
	ErrInvalidPercentEscape = errors.New("invalid percent escape sequence")
	ErrPathEscapesRoot      = errors.New("path escapes root via ..")
)

// CanonicalizeNavPath vets a location reported by a remote peer.
//
// The input must be a root-relative URL ("/a/b?x=1#h"). Absolute and
// protocol-relative URLs, backslashes, NUL bytes and broken percent escapes
// are rejected. Doubled slashes are collapsed and "." / ".." segments are
// resolved; ".." may not climb above root. A trailing slash is kept because
// route patterns treat it as significant in strict mode. Query and hash are
// passed through untouched.
func CanonicalizeNavPath(input string) (string, error) {
	if input == "" {
		return "/", nil
	}
	if strings.HasPrefix(input, "http://") ||
		strings.HasPrefix(input, "https://") ||
		strings.HasPrefix(input, "//") {
		return "", ErrAbsoluteURL
	}
	if input[0] != '/' {
		return "", ErrInvalidPath
	}

	p := ParsePath(input)
	path := p.Path

	if strings.Contains(path, "\\") {
		return "", ErrBackslashInPath
	}
	if strings.Contains(path, "\x00") || strings.Contains(strings.ToUpper(path), "%00") {
		return "", ErrNullByteInPath
	}
	if strings.Contains(path, "%") {
		if err := validatePercentEscapes(path); err != nil {
			return "", err
		}
	}

	trailing := len(path) > 1 && strings.HasSuffix(path, "/")
	segments := strings.Split(CleanPath(path), "/")
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		switch seg {
		case "", ".":
		case "..":
			if len(out) == 0 {
				return "", ErrPathEscapesRoot
			}
			out = out[:len(out)-1]
		default:
			out = append(out, seg)
		}
	}

	path = "/" + strings.Join(out, "/")
	if trailing && path != "/" {
		path += "/"
	}

	if p.Query != "" {
		path += "?" + p.Query
	}
	return path + p.Hash, nil
}

// validatePercentEscapes checks that every "%" is followed by two hex digits.
func validatePercentEscapes(path string) error {
	for i := 0; i < len(path); i++ {
		if path[i] != '%' {
			continue
		}
		if i+2 >= len(path) || !isHexDigit(path[i+1]) || !isHexDigit(path[i+2]) {
			return ErrInvalidPercentEscape
		}
		i += 2
	}
	return nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
