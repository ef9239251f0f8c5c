package router

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/vango-dev/vrouter/pkg/pathpattern"
)

// PathMatchParam is the param name wildcard and unnamed-group captures are
// exposed under.
const PathMatchParam = "pathMatch"

// fillers caches compiled templates by path.
var fillers sync.Map

// FillParams substitutes params into a route path template. A "pathMatch"
// param fills the template's wildcard.
func FillParams(path string, params map[string]string) (string, error) {
	var filler *pathpattern.Pattern
	if cached, ok := fillers.Load(path); ok {
		filler = cached.(*pathpattern.Pattern)
	} else {
		p, err := pathpattern.Compile(path, pathpattern.Options{})
		if err != nil {
			return "", err
		}
		actual, _ := fillers.LoadOrStore(path, p)
		filler = actual.(*pathpattern.Pattern)
	}

	if pm, ok := params[PathMatchParam]; ok {
		withIndex := copyParams(params)
		withIndex["0"] = pm
		params = withIndex
	}
	return filler.Fill(params)
}

// BindParams copies route params into the fields of target, a pointer to a
// struct, according to their `param` tags. Strings, integers, floats and
// bools are parsed; a []string field receives the "/"-separated segments of a
// wildcard param.
//
//	type UserParams struct {
//	    ID   int      `param:"id"`
//	    Rest []string `param:"pathMatch"`
//	}
func BindParams(params map[string]string, target any) error {
	if target == nil {
		return nil
	}

	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr {
		return fmt.Errorf("target must be a pointer, got %s", v.Kind())
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("target must be a pointer to struct, got pointer to %s", v.Kind())
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := field.Tag.Get("param")
		if name == "" {
			continue
		}
		value, ok := params[name]
		if !ok {
			continue
		}
		fv := v.Field(i)
		if !fv.CanSet() {
			continue
		}
		if err := setField(fv, value); err != nil {
			return fmt.Errorf("param %q: %w", name, err)
		}
	}
	return nil
}

// Bind is BindParams over the route's params.
func (r *Route) Bind(target any) error {
	return BindParams(r.Params, target)
}

func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid integer: %s", value)
		}
		field.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid unsigned integer: %s", value)
		}
		field.SetUint(n)

	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid float: %s", value)
		}
		field.SetFloat(n)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %s", value)
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice element type: %s", field.Type().Elem().Kind())
		}
		var parts []string
		if trimmed := strings.Trim(value, "/"); trimmed != "" {
			parts = strings.Split(trimmed, "/")
		}
		field.Set(reflect.ValueOf(parts))

	default:
		return fmt.Errorf("unsupported type: %s", field.Kind())
	}
	return nil
}
