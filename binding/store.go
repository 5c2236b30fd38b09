package binding

import (
	"reflect"

	"github.com/aerissecure/sheetlayout/errs"
)

// ResourceStore looks up templates, styles, table data and drawing templates
// by key.
type ResourceStore interface {
	Resource(key string) (interface{}, bool)
}

// MapStore is a ResourceStore backed by a map.
type MapStore map[string]interface{}

func (m MapStore) Resource(key string) (interface{}, bool) {
	v, ok := m[key]
	return v, ok
}

// Add stores v under key, replacing any previous resource.
func (m MapStore) Add(key string, v interface{}) MapStore {
	m[key] = v
	return m
}

type chain []ResourceStore

func (c chain) Resource(key string) (interface{}, bool) {
	for _, s := range c {
		if s == nil {
			continue
		}
		if v, ok := s.Resource(key); ok {
			return v, true
		}
	}
	return nil, false
}

// Chain searches stores in order and returns the first match.
func Chain(stores ...ResourceStore) ResourceStore {
	return chain(stores)
}

// Lookup returns the resource stored under key if it has type T. A missing
// key or a resource of another type is a ResourceNotFoundError.
func Lookup[T any](s ResourceStore, key string) (T, error) {
	var zero T
	kind := reflect.TypeOf((*T)(nil)).Elem().String()
	if s == nil || key == "" {
		return zero, errs.ResourceNotFound(kind, key)
	}
	v, ok := s.Resource(key)
	if !ok {
		return zero, errs.ResourceNotFound(kind, key)
	}
	t, ok := v.(T)
	if !ok {
		return zero, errs.ResourceNotFound(kind, key)
	}
	return t, nil
}
