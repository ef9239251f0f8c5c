package pathpattern

import "strings"

const upperhex = "0123456789ABCDEF"

// uriSafe holds the bytes encodeURI leaves alone.
var uriSafe = func() [256]bool {
	var t [256]bool
	for c := 'a'; c <= 'z'; c++ {
		t[c] = true
	}
	for c := 'A'; c <= 'Z'; c++ {
		t[c] = true
	}
	for c := '0'; c <= '9'; c++ {
		t[c] = true
	}
	for _, c := range ";,/?:@&=+$-_.!~*'()#" {
		t[c] = true
	}
	return t
}()

// encodeURI percent-encodes every byte outside uriSafe, then forces the
// extra bytes in also to be escaped.
func encodeURI(s, also string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if uriSafe[c] && strings.IndexByte(also, c) < 0 {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

// encodePretty encodes a single segment value: slashes, "?" and "#" are
// escaped, other path-safe characters stay readable.
func encodePretty(s string) string {
	return encodeURI(s, "/?#")
}

// encodeAsterisk encodes a wildcard value, keeping its slashes.
func encodeAsterisk(s string) string {
	return encodeURI(s, "?#")
}
