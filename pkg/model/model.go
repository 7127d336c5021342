package model

import (
	"reflect"
	"sort"
)

// Entry is one key of an ordered mapping.
type Entry struct {
	Key   string
	Value any
}

// Object is an ordered mapping from station names to models.
type Object []Entry

// Get returns the value stored under key.
func (o Object) Get(key string) (any, bool) {
	for _, e := range o {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Has reports whether key is present.
func (o Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Set replaces the value under key, appending the key if it is new.
func (o Object) Set(key string, value any) Object {
	for i, e := range o {
		if e.Key == key {
			o[i].Value = value
			return o
		}
	}
	return append(o, Entry{Key: key, Value: value})
}

// Without returns a copy of o with the given keys removed.
func (o Object) Without(keys ...string) Object {
	out := make(Object, 0, len(o))
	for _, e := range o {
		skip := false
		for _, k := range keys {
			if e.Key == k {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, e)
		}
	}
	return out
}

// Clone returns a shallow copy.
func (o Object) Clone() Object {
	out := make(Object, len(o))
	copy(out, o)
	return out
}

// Keys returns the keys in order.
func (o Object) Keys() []string {
	keys := make([]string, len(o))
	for i, e := range o {
		keys[i] = e.Key
	}
	return keys
}

// IsMapping reports whether v is a model mapping (Object or map with string keys).
func IsMapping(v any) bool {
	switch v.(type) {
	case Object, map[string]any:
		return true
	}
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String
}

// Entries returns the entries of a mapping model in application order.
// Non-mappings yield nil.
func Entries(v any) []Entry {
	switch m := v.(type) {
	case Object:
		return m
	case map[string]any:
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]Entry, len(keys))
		for i, k := range keys {
			out[i] = Entry{Key: k, Value: m[k]}
		}
		return out
	}
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil
	}
	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	out := make([]Entry, len(keys))
	for i, k := range keys {
		out[i] = Entry{Key: k.String(), Value: rv.MapIndex(k).Interface()}
	}
	return out
}

// Lookup returns the value stored under key in any mapping model.
func Lookup(v any, key string) (any, bool) {
	switch m := v.(type) {
	case Object:
		return m.Get(key)
	case map[string]any:
		val, ok := m[key]
		return val, ok
	}
	for _, e := range Entries(v) {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// ToObject converts any mapping model to an Object, preserving Object order.
func ToObject(v any) Object {
	if o, ok := v.(Object); ok {
		return o
	}
	return Object(Entries(v))
}

// Items returns the elements of a sequence model. ok is false for
// non-sequences. Byte slices are not sequences.
func Items(v any) (items []any, ok bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []string:
		out := make([]any, len(s))
		for i, x := range s {
			out[i] = x
		}
		return out, true
	case Object, []byte, nil:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
