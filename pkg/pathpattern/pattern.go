package pathpattern

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Options tune how a pattern compiles.
type Options struct {
	// Sensitive makes matching case-sensitive.
	Sensitive bool

	// Strict makes a trailing slash significant.
	Strict bool
}

// Key describes one capture of a compiled pattern.
type Key struct {
	// Name is the parameter name. Unnamed groups and wildcards are named by
	// their zero-based index among unnamed keys ("0", "1", ...).
	Name string

	// Unnamed is set for "(...)" groups and "*" wildcards.
	Unnamed bool

	// Prefix is the delimiter that precedes the parameter ("/", "." or "").
	Prefix string

	// Delimiter separates repeated segments.
	Delimiter string

	Optional bool
	Repeat   bool

	// Partial is set when the parameter is followed by a literal other than
	// its prefix, as in "/:a-:b".
	Partial bool

	// Asterisk is set for "*" wildcards.
	Asterisk bool

	// Pattern is the regular expression a single value must match.
	Pattern string
}

// token is either a literal string or a key.
type token struct {
	literal string
	key     *Key
}

// Pattern is a compiled path pattern. It is immutable and safe for
// concurrent use.
type Pattern struct {
	source string
	tokens []token
	keys   []Key
	re     *regexp.Regexp
	checks []*regexp.Regexp
}

// pathRE tokenizes a pattern: escaped characters, then parameters with an
// optional prefix, custom group and modifier, then bare wildcards.
var pathRE = regexp.MustCompile(`(\\.)|([/.])?(?:(?::(\w+)(?:\(((?:\\.|[^\\()])+)\))?|\(((?:\\.|[^\\()])+)\))([+*?])?|(\*))`)

const defaultDelimiter = "/"

// Compile parses source and builds its matcher.
func Compile(source string, opts Options) (*Pattern, error) {
	tokens, keys := parse(source)

	route := tokensToRegexp(tokens, opts)
	re, err := regexp.Compile(route)
	if err != nil {
		return nil, fmt.Errorf("compile path %q: %w", source, err)
	}

	checks := make([]*regexp.Regexp, len(tokens))
	for i, tok := range tokens {
		if tok.key == nil {
			continue
		}
		check, err := regexp.Compile("(?i)^(?:" + tok.key.Pattern + ")$")
		if err != nil {
			return nil, fmt.Errorf("compile param %q of %q: %w", tok.key.Name, source, err)
		}
		checks[i] = check
	}

	return &Pattern{
		source: source,
		tokens: tokens,
		keys:   keys,
		re:     re,
		checks: checks,
	}, nil
}

// MustCompile is Compile that panics on error.
func MustCompile(source string, opts Options) *Pattern {
	p, err := Compile(source, opts)
	if err != nil {
		panic(err)
	}
	return p
}

// Source returns the pattern string.
func (p *Pattern) Source() string { return p.source }

// Regexp returns the compiled matcher.
func (p *Pattern) Regexp() *regexp.Regexp { return p.re }

// Keys returns the pattern's captures in order.
func (p *Pattern) Keys() []Key {
	out := make([]Key, len(p.keys))
	copy(out, p.keys)
	return out
}

// DuplicateKeys returns the names that are captured more than once.
func (p *Pattern) DuplicateKeys() []string {
	seen := make(map[string]bool, len(p.keys))
	var dups []string
	for _, k := range p.keys {
		if seen[k.Name] {
			dups = append(dups, k.Name)
		}
		seen[k.Name] = true
	}
	return dups
}

// Exec matches path and returns the raw, undecoded submatch of every key.
func (p *Pattern) Exec(path string) ([]Capture, bool) {
	m := p.re.FindStringSubmatchIndex(path)
	if m == nil {
		return nil, false
	}
	caps := make([]Capture, 0, len(p.keys))
	for i := range p.keys {
		lo, hi := m[2*(i+1)], m[2*(i+1)+1]
		if lo < 0 {
			caps = append(caps, Capture{Key: p.keys[i]})
			continue
		}
		caps = append(caps, Capture{Key: p.keys[i], Value: path[lo:hi], Matched: true})
	}
	return caps, true
}

// Capture is one key's submatch.
type Capture struct {
	Key     Key
	Value   string
	Matched bool
}

// Match matches path and returns the decoded captures keyed by name.
func (p *Pattern) Match(path string) (map[string]string, bool) {
	caps, ok := p.Exec(path)
	if !ok {
		return nil, false
	}
	params := make(map[string]string, len(caps))
	for _, c := range caps {
		if !c.Matched {
			continue
		}
		v, err := url.PathUnescape(c.Value)
		if err != nil {
			v = c.Value
		}
		params[c.Key.Name] = v
	}
	return params, true
}

// Fill substitutes params into the pattern. Values are percent-encoded,
// keeping characters that are safe in a path; wildcards keep their slashes.
// A missing required parameter or a value that does not satisfy its
// parameter's pattern is an error.
func (p *Pattern) Fill(params map[string]string) (string, error) {
	var b strings.Builder
	for i, tok := range p.tokens {
		if tok.key == nil {
			b.WriteString(tok.literal)
			continue
		}
		k := tok.key
		value, ok := params[k.Name]
		if !ok {
			if k.Optional {
				if k.Partial {
					b.WriteString(k.Prefix)
				}
				continue
			}
			return "", fmt.Errorf("expected %q to be defined", k.Name)
		}

		var segment string
		if k.Asterisk {
			segment = encodeAsterisk(value)
		} else {
			segment = encodePretty(value)
		}
		if !p.checks[i].MatchString(segment) {
			return "", fmt.Errorf("expected %q to match %q, but received %q", k.Name, k.Pattern, segment)
		}
		b.WriteString(k.Prefix)
		b.WriteString(segment)
	}
	return b.String(), nil
}

// parse splits source into literal and key tokens.
func parse(source string) ([]token, []Key) {
	var (
		tokens  []token
		keys    []Key
		path    strings.Builder
		index   int
		unnamed int
	)

	for _, m := range pathRE.FindAllStringSubmatchIndex(source, -1) {
		group := func(n int) (string, bool) {
			if m[2*n] < 0 {
				return "", false
			}
			return source[m[2*n]:m[2*n+1]], true
		}

		path.WriteString(source[index:m[0]])
		index = m[1]

		if escaped, ok := group(1); ok {
			path.WriteString(escaped[1:])
			continue
		}

		prefix, hasPrefix := group(2)
		name, _ := group(3)
		capture, _ := group(4)
		grp, _ := group(5)
		modifier, _ := group(6)
		_, asterisk := group(7)

		if path.Len() > 0 {
			tokens = append(tokens, token{literal: path.String()})
			path.Reset()
		}

		partial := hasPrefix && index < len(source) && string(source[index]) != prefix
		delimiter := prefix
		if delimiter == "" {
			delimiter = defaultDelimiter
		}

		pattern := capture
		if pattern == "" {
			pattern = grp
		}
		switch {
		case pattern != "":
			pattern = escapeGroup(pattern)
		case asterisk:
			pattern = ".*"
		default:
			pattern = "[^" + regexp.QuoteMeta(delimiter) + "]+?"
		}

		key := Key{
			Name:      name,
			Prefix:    prefix,
			Delimiter: delimiter,
			Optional:  modifier == "?" || modifier == "*",
			Repeat:    modifier == "+" || modifier == "*",
			Partial:   partial,
			Asterisk:  asterisk,
			Pattern:   pattern,
		}
		if key.Name == "" {
			key.Name = strconv.Itoa(unnamed)
			key.Unnamed = true
			unnamed++
		}
		keys = append(keys, key)
		tokens = append(tokens, token{key: &keys[len(keys)-1]})
	}

	path.WriteString(source[index:])
	if path.Len() > 0 {
		tokens = append(tokens, token{literal: path.String()})
	}

	// keys may have been reallocated while appending; repoint the tokens.
	k := 0
	for i := range tokens {
		if tokens[i].key != nil {
			tokens[i].key = &keys[k]
			k++
		}
	}
	return tokens, keys
}

// tokensToRegexp builds the anchored matcher source for tokens.
func tokensToRegexp(tokens []token, opts Options) string {
	var route strings.Builder
	for _, tok := range tokens {
		if tok.key == nil {
			route.WriteString(regexp.QuoteMeta(tok.literal))
			continue
		}
		k := tok.key
		prefix := regexp.QuoteMeta(k.Prefix)
		capture := "(?:" + k.Pattern + ")"
		if k.Repeat {
			capture += "(?:" + prefix + capture + ")*"
		}
		switch {
		case k.Optional && !k.Partial:
			capture = "(?:" + prefix + "(" + capture + "))?"
		case k.Optional:
			capture = prefix + "(" + capture + ")?"
		default:
			capture = prefix + "(" + capture + ")"
		}
		route.WriteString(capture)
	}

	src := route.String()
	if !opts.Strict {
		src = strings.TrimSuffix(src, "/") + "(?:/)?"
	}
	src = "^" + src + "$"
	if !opts.Sensitive {
		src = "(?i)" + src
	}
	return src
}

// escapeGroup escapes characters that would change the meaning of a
// user-supplied group.
func escapeGroup(group string) string {
	var b strings.Builder
	for i := 0; i < len(group); i++ {
		switch c := group[i]; c {
		case '=', '!', ':', '$', '/', '(', ')':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
