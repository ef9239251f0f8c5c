package routeconfig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"

	rerrors "github.com/vango-dev/vrouter/internal/errors"
)

// File is a decoded route file.
type File struct {
	Routes []Route `json:"routes" yaml:"routes" toml:"routes"`
}

// Route is one declarative route. Component and guard fields hold names
// resolved through a Registry.
type Route struct {
	Path      string `json:"path" yaml:"path" toml:"path"`
	Name      string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Component string `json:"component,omitempty" yaml:"component,omitempty" toml:"component,omitempty"`

	// Components maps view slots to component names.
	Components map[string]string `json:"components,omitempty" yaml:"components,omitempty" toml:"components,omitempty"`

	// Redirect is a redirect path, relative paths resolving against the
	// parent route.
	Redirect string `json:"redirect,omitempty" yaml:"redirect,omitempty" toml:"redirect,omitempty"`

	// RedirectName redirects to a named route, with RedirectParams.
	RedirectName   string            `json:"redirectName,omitempty" yaml:"redirectName,omitempty" toml:"redirectName,omitempty"`
	RedirectParams map[string]string `json:"redirectParams,omitempty" yaml:"redirectParams,omitempty" toml:"redirectParams,omitempty"`

	Alias []string `json:"alias,omitempty" yaml:"alias,omitempty" toml:"alias,omitempty"`

	// BeforeEnter names registered guards run in order.
	BeforeEnter []string `json:"beforeEnter,omitempty" yaml:"beforeEnter,omitempty" toml:"beforeEnter,omitempty"`

	Meta map[string]any `json:"meta,omitempty" yaml:"meta,omitempty" toml:"meta,omitempty"`

	// Props passes the params of the default slot as props.
	Props bool `json:"props,omitempty" yaml:"props,omitempty" toml:"props,omitempty"`

	// StaticProps are passed to the default slot as is.
	StaticProps map[string]any `json:"staticProps,omitempty" yaml:"staticProps,omitempty" toml:"staticProps,omitempty"`

	CaseSensitive bool `json:"caseSensitive,omitempty" yaml:"caseSensitive,omitempty" toml:"caseSensitive,omitempty"`
	Strict        bool `json:"strict,omitempty" yaml:"strict,omitempty" toml:"strict,omitempty"`

	Children []Route `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty"`
}

// Format is a route file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatHCL  Format = "hcl"
)

// FormatOf returns the format of a file name or object key by extension.
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".hcl":
		return FormatHCL, nil
	}
	return "", rerrors.New("R022").WithDetail(fmt.Sprintf("%q has no supported extension.", name))
}

// Decode decodes data named name, picking the format by extension.
// Unknown fields are rejected. Errors are *errors.RouteError values
// carrying the position of the problem when the decoder reports one.
func Decode(name string, data []byte) (*File, error) {
	format, err := FormatOf(name)
	if err != nil {
		return nil, err
	}
	return DecodeFormat(name, format, data)
}

// DecodeFormat decodes data in the given format. name is used in
// diagnostics only.
func DecodeFormat(name string, format Format, data []byte) (*File, error) {
	var (
		f   *File
		err error
	)
	switch format {
	case FormatJSON:
		f, err = decodeJSON(name, data)
	case FormatYAML:
		f, err = decodeYAML(data)
	case FormatTOML:
		f, err = decodeTOML(name, data)
	case FormatHCL:
		f, err = decodeHCL(name, data)
	default:
		return nil, rerrors.New("R022").WithDetail(fmt.Sprintf("Unknown format %q.", format))
	}
	if err != nil {
		return nil, rerrors.FromError(err, "R020")
	}
	return f, nil
}

func decodeJSON(name string, data []byte) (*File, error) {
	var f File
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		var syntax *json.SyntaxError
		if errors.As(err, &syntax) {
			line, col := position(data, syntax.Offset)
			return nil, rerrors.New("R020").Wrap(err).WithLocation(name, line, col)
		}
		return nil, err
	}
	return &f, nil
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (line, col int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	before := data[:offset]
	line = bytes.Count(before, []byte("\n")) + 1
	col = int(offset) - bytes.LastIndexByte(before, '\n')
	return line, col
}

func decodeYAML(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &f, nil
}

func decodeTOML(name string, data []byte) (*File, error) {
	var f File
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		var perr toml.ParseError
		if errors.As(err, &perr) {
			return nil, rerrors.New("R020").Wrap(err).WithLocation(name, perr.Position.Line, 0)
		}
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return &f, nil
}

type hclFile struct {
	Routes []*hclRoute `hcl:"route,block"`
}

type hclRoute struct {
	Path           string            `hcl:"path,label"`
	Name           string            `hcl:"name,optional"`
	Component      string            `hcl:"component,optional"`
	Components     map[string]string `hcl:"components,optional"`
	Redirect       string            `hcl:"redirect,optional"`
	RedirectName   string            `hcl:"redirect_name,optional"`
	RedirectParams map[string]string `hcl:"redirect_params,optional"`
	Alias          []string          `hcl:"alias,optional"`
	BeforeEnter    []string          `hcl:"before_enter,optional"`
	Meta           map[string]string `hcl:"meta,optional"`
	Props          bool              `hcl:"props,optional"`
	StaticProps    map[string]string `hcl:"static_props,optional"`
	CaseSensitive  bool              `hcl:"case_sensitive,optional"`
	Strict         bool              `hcl:"strict,optional"`
	Children       []*hclRoute       `hcl:"route,block"`
}

func decodeHCL(name string, data []byte) (*File, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, name)
	if diags.HasErrors() {
		return nil, hclError(name, diags)
	}

	var parsed hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, hclError(name, diags)
	}

	f := &File{Routes: make([]Route, 0, len(parsed.Routes))}
	for _, r := range parsed.Routes {
		f.Routes = append(f.Routes, r.route())
	}
	return f, nil
}

func hclError(name string, diags hcl.Diagnostics) error {
	err := rerrors.New("R020").Wrap(diags)
	for _, d := range diags {
		if d.Severity == hcl.DiagError && d.Subject != nil {
			return err.WithLocation(name, d.Subject.Start.Line, d.Subject.Start.Column)
		}
	}
	return err
}

func (r *hclRoute) route() Route {
	out := Route{
		Path:           r.Path,
		Name:           r.Name,
		Component:      r.Component,
		Components:     r.Components,
		Redirect:       r.Redirect,
		RedirectName:   r.RedirectName,
		RedirectParams: r.RedirectParams,
		Alias:          r.Alias,
		BeforeEnter:    r.BeforeEnter,
		Meta:           anyMap(r.Meta),
		Props:          r.Props,
		StaticProps:    anyMap(r.StaticProps),
		CaseSensitive:  r.CaseSensitive,
		Strict:         r.Strict,
	}
	for _, c := range r.Children {
		out.Children = append(out.Children, c.route())
	}
	return out
}

func anyMap(m map[string]string) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
