package typify

import (
	"reflect"
	"strconv"

	"github.com/jml-dev/jml/pkg/model"
)

// Kind is the runtime discriminator of a model value.
type Kind uint8

const (
	KindNil      Kind = iota // nil
	KindString               // string
	KindNumber               // any Go integer or float
	KindBoolean              // bool
	KindFunction             // any func value
	KindArray                // sequence model
	KindObject               // mapping model
	KindNode                 // tree element handle
	KindWidget               // host widget wrapping an element
	KindBinder               // reactive cell
	KindBind                 // bind descriptor produced by a cell
	KindOther                // anything else
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindFunction:
		return "function"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindNode:
		return "node"
	case KindWidget:
		return "widget"
	case KindBinder:
		return "binder"
	case KindBind:
		return "bind"
	default:
		return "other"
	}
}

// Node is implemented by host tree elements.
type Node interface {
	TagName() string
}

// Widget is a host object wrapping an element, exposing its own methods.
type Widget interface {
	Elt() Node
}

// Cell is implemented by reactive binders.
type Cell interface {
	Value() any
	IsBinder() bool
}

// Descriptor is implemented by bind descriptors waiting for a target.
type Descriptor interface {
	IsBindDescriptor() bool
}

// KindOf classifies a single value.
func KindOf(v any) Kind {
	switch x := v.(type) {
	case nil:
		return KindNil
	case string:
		return KindString
	case bool:
		return KindBoolean
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return KindNumber
	case Node:
		if isNilPointer(x) {
			return KindNil
		}
		return KindNode
	case Widget:
		return KindWidget
	case Cell:
		if isNilPointer(x) {
			return KindNil
		}
		return KindBinder
	case Descriptor:
		if isNilPointer(x) {
			return KindNil
		}
		return KindBind
	case model.Object, map[string]any:
		return KindObject
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Func:
		if rv.IsNil() {
			return KindNil
		}
		return KindFunction
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return KindObject
		}
	case reflect.Slice, reflect.Array:
		if _, ok := v.([]byte); !ok {
			return KindArray
		}
	case reflect.String:
		return KindString
	case reflect.Bool:
		return KindBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return KindNumber
	}
	return KindOther
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// IsPrimitive reports whether v is a string, number or boolean.
func IsPrimitive(v any) bool {
	switch KindOf(v) {
	case KindString, KindNumber, KindBoolean:
		return true
	}
	return false
}

// Text renders a primitive the way it appears in markup.
// Numbers drop trailing zeros; nil becomes the empty string.
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64)
	}
	return ""
}

// Number converts a numeric value to float64.
func Number(v any) (float64, bool) {
	if KindOf(v) != KindNumber {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	default:
		return rv.Float(), true
	}
}

// Truthy follows the loose truthiness models are written with:
// nil, false, zero, and the empty string are false.
func Truthy(v any) bool {
	switch KindOf(v) {
	case KindNil:
		return false
	case KindBoolean:
		return reflect.ValueOf(v).Bool()
	case KindString:
		return Text(v) != ""
	case KindNumber:
		n, _ := Number(v)
		return n != 0
	}
	return true
}
