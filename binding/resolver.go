// Package binding evaluates data-bound attributes and looks up keyed
// resources.
package binding

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"github.com/aerissecure/sheetlayout/errs"
	"github.com/aerissecure/sheetlayout/layout"
)

// Resolver evaluates a binding expression against a data context.
type Resolver interface {
	Resolve(expr string, data interface{}) (interface{}, error)
}

// PathResolver walks dotted paths with optional indexers through structs,
// maps, slices and zero-argument methods using reflection. Every failure,
// including a panic inside a method, comes back as a BindingEvaluationError.
type PathResolver struct{}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func (PathResolver) Resolve(expr string, data interface{}) (out interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, errs.Binding(expr, pkgerrors.Errorf("panic: %v", r))
		}
	}()

	expr = strings.TrimSpace(expr)
	if expr == "" || expr == "." {
		return data, nil
	}
	segs, err := splitPath(expr)
	if err != nil {
		return nil, errs.Binding(expr, err)
	}
	v := reflect.ValueOf(data)
	for _, s := range segs {
		v, err = step(v, s)
		if err != nil {
			return nil, errs.Binding(expr, err)
		}
	}
	if !v.IsValid() {
		return nil, nil
	}
	return v.Interface(), nil
}

type segment struct {
	name  string
	index string
	isIdx bool
}

func splitPath(expr string) ([]segment, error) {
	var out []segment
	for _, part := range strings.Split(expr, ".") {
		if part == "" {
			return nil, pkgerrors.Errorf("empty path segment in %q", expr)
		}
		name := part
		var idx []string
		if i := strings.IndexByte(part, '['); i >= 0 {
			name = part[:i]
			rest := part[i:]
			for rest != "" {
				if rest[0] != '[' {
					return nil, pkgerrors.Errorf("bad indexer in %q", part)
				}
				end := strings.IndexByte(rest, ']')
				if end < 0 {
					return nil, pkgerrors.Errorf("unclosed indexer in %q", part)
				}
				idx = append(idx, strings.Trim(rest[1:end], `"'`))
				rest = rest[end+1:]
			}
		}
		if name != "" {
			out = append(out, segment{name: name})
		}
		for _, ix := range idx {
			out = append(out, segment{index: ix, isIdx: true})
		}
	}
	return out, nil
}

func indirect(v reflect.Value) (reflect.Value, error) {
	for v.IsValid() && (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return v, pkgerrors.New("nil value")
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return v, pkgerrors.New("nil value")
	}
	return v, nil
}

func step(v reflect.Value, s segment) (reflect.Value, error) {
	if !s.isIdx {
		if m, ok := method(v, s.name); ok {
			return call(m, s.name)
		}
	}
	v, err := indirect(v)
	if err != nil {
		return v, pkgerrors.Wrapf(err, "at %q", s.name+s.index)
	}
	if s.isIdx {
		return index(v, s.index)
	}
	switch v.Kind() {
	case reflect.Struct:
		f := v.FieldByName(s.name)
		if !f.IsValid() {
			return f, pkgerrors.Errorf("%s has no field %q", v.Type(), s.name)
		}
		if !f.CanInterface() {
			return f, pkgerrors.Errorf("field %q of %s is unexported", s.name, v.Type())
		}
		return f, nil
	case reflect.Map:
		return index(v, s.name)
	}
	return reflect.Value{}, pkgerrors.Errorf("cannot select %q from %s", s.name, v.Type())
}

func method(v reflect.Value, name string) (reflect.Value, bool) {
	if !v.IsValid() {
		return v, false
	}
	if m := v.MethodByName(name); m.IsValid() {
		return m, true
	}
	if v.Kind() == reflect.Interface && !v.IsNil() {
		return method(v.Elem(), name)
	}
	if v.Kind() != reflect.Ptr && v.CanAddr() {
		if m := v.Addr().MethodByName(name); m.IsValid() {
			return m, true
		}
	}
	return reflect.Value{}, false
}

func call(m reflect.Value, name string) (reflect.Value, error) {
	t := m.Type()
	if t.NumIn() != 0 {
		return reflect.Value{}, pkgerrors.Errorf("method %q takes arguments", name)
	}
	switch {
	case t.NumOut() == 1:
		return m.Call(nil)[0], nil
	case t.NumOut() == 2 && t.Out(1).Implements(errorType):
		res := m.Call(nil)
		if e, _ := res[1].Interface().(error); e != nil {
			return reflect.Value{}, pkgerrors.Wrapf(e, "method %q", name)
		}
		return res[0], nil
	}
	return reflect.Value{}, pkgerrors.Errorf("method %q has an unsupported signature", name)
}

func index(v reflect.Value, key string) (reflect.Value, error) {
	switch v.Kind() {
	case reflect.Slice, reflect.Array, reflect.String:
		i, err := strconv.Atoi(key)
		if err != nil {
			return reflect.Value{}, pkgerrors.Errorf("index %q is not a number", key)
		}
		if i < 0 || i >= v.Len() {
			return reflect.Value{}, pkgerrors.Errorf("index %d out of range [0,%d)", i, v.Len())
		}
		return v.Index(i), nil
	case reflect.Map:
		kt := v.Type().Key()
		var k reflect.Value
		switch kt.Kind() {
		case reflect.String:
			k = reflect.ValueOf(key).Convert(kt)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			n, err := strconv.ParseInt(key, 10, 64)
			if err != nil {
				return reflect.Value{}, pkgerrors.Errorf("map key %q is not a number", key)
			}
			k = reflect.ValueOf(n).Convert(kt)
		default:
			return reflect.Value{}, pkgerrors.Errorf("unsupported map key type %s", kt)
		}
		e := v.MapIndex(k)
		if !e.IsValid() {
			return e, pkgerrors.Errorf("key %q not found", key)
		}
		return e, nil
	}
	return reflect.Value{}, pkgerrors.Errorf("cannot index %s", v.Type())
}

// Evaluate returns the literal of b, or resolves its path against data. An
// unset binding evaluates to nil.
func Evaluate(r Resolver, b layout.Binding, data interface{}) (interface{}, error) {
	if !b.IsSet() {
		return nil, nil
	}
	if !b.IsPath() {
		return b.Literal, nil
	}
	return r.Resolve(b.Path, data)
}

// Items flattens a slice, array or map value into a list of items. Maps are
// returned in key order.
func Items(v interface{}) ([]interface{}, error) {
	if v == nil {
		return nil, nil
	}
	if items, ok := v.([]interface{}); ok {
		return items, nil
	}
	rv, err := indirect(reflect.ValueOf(v))
	if err != nil {
		return nil, nil
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]interface{}, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, nil
	case reflect.Map:
		keys := rv.MapKeys()
		sortKeys(keys)
		out := make([]interface{}, len(keys))
		for i, k := range keys {
			out[i] = rv.MapIndex(k).Interface()
		}
		return out, nil
	}
	return nil, pkgerrors.Errorf("%s is not a collection", rv.Type())
}

func sortKeys(keys []reflect.Value) {
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
	})
}
