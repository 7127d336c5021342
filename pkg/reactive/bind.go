package reactive

import (
	"log/slog"
	"reflect"
	"strconv"

	"github.com/jml-dev/jml/pkg/model"
	"github.com/jml-dev/jml/pkg/typify"
)

// Bind is a bond descriptor waiting for a target. It is produced by
// Binder.Bind without a target, Binder.As, Binder.With and Compound, and is
// attached to a node station by the model applier.
type Bind struct {
	Binders []*Binder

	// Type is copied onto every bond created by Attach.
	Type string

	combine func() any

	// owner holds the listener registered while the descriptor was
	// unattached.
	owner    *Binder
	listener int
}

// IsBindDescriptor marks d as a bind descriptor.
func (d *Bind) IsBindDescriptor() bool { return true }

// Value computes the descriptor's current value.
func (d *Bind) Value() any {
	if d.combine == nil {
		return nil
	}
	return d.combine()
}

// Listener returns the pending listener index, or -1.
func (d *Bind) Listener() int {
	if d.owner == nil {
		return -1
	}
	return d.listener
}

// Attach creates one bond per binder pointing at target's station and
// pushes the current value through each. The listener registered while
// unattached is removed first. A nil apply falls back to each binder's own
// applier.
func (d *Bind) Attach(target any, station string, apply NodeApplier) {
	if d.owner != nil {
		d.owner.RemoveListener(d.listener)
		d.owner = nil
	}
	for _, b := range d.Binders {
		b.addBond(&Bond{
			Source:  b,
			Target:  target,
			Station: station,
			As:      func(any) any { return d.Value() },
			Type:    d.Type,
			apply:   apply,
		})
	}
}

// Bind creates a bond, classifying args by kind:
//
//   - a node or *Binder is the target
//   - the first string is the station ("value" by default); a second
//     string is the bond type
//   - a function transforms the value
//   - a number is a listener index to remove from b
//   - a sequence selects by value: two items pick by truthiness, more pick
//     by index with "" as fallback
//   - a mapping selects by key, falling back to "default" then "false"
//
// With a target the bond is pushed once and Bind returns nil. Without one
// the transform is registered as a listener and a descriptor is returned;
// the first string then names the bond type.
func (b *Binder) Bind(args ...any) *Bind {
	c := typify.Classify(args...)
	var target any
	if n := c.FirstNode(); n != nil {
		target = n
	} else if cell := c.FirstBinder(); cell != nil {
		other, ok := cell.(*Binder)
		if !ok {
			b.logger.Warn("bind target is not a binder")
			return nil
		}
		target = other
	}
	as := transform(c.FirstFunction())
	if values, ok := model.Items(c.FirstArray()); ok && len(values) > 0 {
		as = pickIndex(values)
	} else if obj := c.FirstObject(); obj != nil {
		as = pickKey(obj)
	}

	if target == nil {
		d := &Bind{Binders: []*Binder{b}, combine: func() any { return as(b.value) }}
		if typ, ok := c.FirstString(); ok {
			d.Type = typ
		}
		d.owner = b
		d.listener = b.AddListener(func(v any) { as(v) })
		return d
	}

	if n, ok := c.FirstNumber(); ok {
		b.RemoveListener(int(n))
	}
	station := "value"
	if len(c.Strings) > 0 {
		station = c.Strings[0]
	}
	bond := &Bond{Source: b, Target: target, Station: station, As: as}
	if len(c.Strings) > 1 {
		bond.Type = c.Strings[1]
	}
	b.addBond(bond)
	return nil
}

// As returns a descriptor transforming b's value with fn.
func (b *Binder) As(fn any) *Bind {
	return b.Bind(fn)
}

// With returns a compound descriptor over b and others, combined with fn.
func (b *Binder) With(fn any, others ...any) *Bind {
	return Compound(fn, append([]any{b}, others...)...)
}

// Compound returns a descriptor recomputed from the current values of all
// binders with fn. fn may be func(...any) any or a function taking one
// argument per binder. A nil fn yields the single value, or a []any of
// values for several binders. Any member that is not a *Binder is logged
// and nil is returned.
func Compound(fn any, binders ...any) *Bind {
	list := make([]*Binder, 0, len(binders))
	for i, v := range binders {
		b, ok := v.(*Binder)
		if !ok || b == nil {
			logger := slog.Default()
			if len(list) > 0 {
				logger = list[0].logger
			}
			logger.Warn("non-binder found in compound bind", "index", i, "kind", typify.KindOf(v).String())
			return nil
		}
		list = append(list, b)
	}
	if len(list) == 0 {
		slog.Default().Warn("compound bind needs at least one binder")
		return nil
	}
	return &Bind{
		Binders: list,
		combine: func() any {
			values := make([]any, len(list))
			for i, b := range list {
				values[i] = b.value
			}
			return combine(fn, values)
		},
	}
}

func pickIndex(values []any) func(any) any {
	if len(values) == 2 {
		return func(v any) any {
			if typify.Truthy(v) {
				return values[1]
			}
			return values[0]
		}
	}
	return func(v any) any {
		n, ok := typify.Number(v)
		if s, isString := v.(string); isString {
			i, err := strconv.Atoi(s)
			n, ok = float64(i), err == nil
		}
		if !ok || n < 0 || int(n) >= len(values) || float64(int(n)) != n {
			return ""
		}
		if values[int(n)] == nil {
			return ""
		}
		return values[int(n)]
	}
}

func pickKey(obj any) func(any) any {
	return func(v any) any {
		if out, ok := model.Lookup(obj, typify.Text(v)); ok && out != nil {
			return out
		}
		if out, ok := model.Lookup(obj, "default"); ok && out != nil {
			return out
		}
		out, _ := model.Lookup(obj, "false")
		return out
	}
}

// transform adapts a user function to func(any) any.
func transform(fn any) func(any) any {
	switch f := fn.(type) {
	case nil:
		return identity
	case func(any) any:
		return f
	case func(any) string:
		return func(v any) any { return f(v) }
	case func(any) bool:
		return func(v any) any { return f(v) }
	case func(string) string:
		return func(v any) any { return f(typify.Text(v)) }
	}
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func || rv.Type().NumIn() != 1 {
		return identity
	}
	return func(v any) any {
		return call(rv, []any{v})
	}
}

func combine(fn any, values []any) any {
	switch f := fn.(type) {
	case nil:
		if len(values) == 1 {
			return values[0]
		}
		return values
	case func(...any) any:
		return f(values...)
	case func([]any) any:
		return f(values)
	}
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func {
		return nil
	}
	return call(rv, values)
}

// call invokes fn with values converted to its parameter types. Missing or
// unconvertible arguments become zero values.
func call(fn reflect.Value, values []any) any {
	t := fn.Type()
	n := t.NumIn()
	if t.IsVariadic() {
		n--
	}
	in := make([]reflect.Value, 0, len(values))
	for i := 0; i < n; i++ {
		var v any
		if i < len(values) {
			v = values[i]
		}
		in = append(in, argValue(t.In(i), v))
	}
	if t.IsVariadic() {
		elem := t.In(n).Elem()
		for i := n; i < len(values); i++ {
			in = append(in, argValue(elem, values[i]))
		}
	}
	out := fn.Call(in)
	if len(out) == 0 {
		return nil
	}
	return out[0].Interface()
}

func argValue(t reflect.Type, v any) reflect.Value {
	if v == nil {
		return reflect.Zero(t)
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return rv
	}
	if t.Kind() == reflect.String {
		return reflect.ValueOf(typify.Text(v)).Convert(t)
	}
	if rv.Type().ConvertibleTo(t) && rv.Kind() != reflect.String {
		return rv.Convert(t)
	}
	return reflect.Zero(t)
}
