package reactive

import (
	"log/slog"

	"github.com/jml-dev/jml/pkg/clock"
	"github.com/jml-dev/jml/pkg/model"
	"github.com/jml-dev/jml/pkg/typify"
)

// MaxDepth bounds how many times one binder may be re-entered by its own
// propagation. It only matters for cycles longer than two binders, which
// the setter guard does not break.
const MaxDepth = 32

// NodeApplier applies a value to a node station. The model applier
// provides it.
type NodeApplier func(node typify.Node, value any, station string)

// Bond is a propagation edge from a binder to a node station or to
// another binder.
type Bond struct {
	Source  *Binder
	Target  any // typify.Node or *Binder
	Station string
	As      func(any) any

	// Type nests the value under a station when applied to a node, so
	// {Station: value} is applied at Type (e.g., "style" or "attribute").
	Type string

	apply NodeApplier
}

type listener struct {
	id int
	fn func(any)
}

// Binder is a reactive cell. It is not safe for concurrent use.
type Binder struct {
	value     any
	bonds     []*Bond
	listeners []listener
	next      int

	// setter is the binder currently pushing into this one.
	setter *Binder
	depth  int

	apply  NodeApplier
	clock  clock.Clock
	logger *slog.Logger

	walk      int
	walkTimer clock.Timer
}

// Option configures a Binder.
type Option func(*Binder)

// WithApplier sets the applier used by bonds to nodes created through
// Bind.
func WithApplier(fn NodeApplier) Option {
	return func(b *Binder) { b.apply = fn }
}

// WithClock sets the clock driving Through, Loop and Flash.
func WithClock(c clock.Clock) Option {
	return func(b *Binder) { b.clock = c }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Binder) { b.logger = l }
}

// New creates a binder holding value.
//
// Without WithClock the binder walks on a real clock with a private lock,
// which Set and Bind do not take. Such a binder is unsynchronized: do not
// touch it from other goroutines while Through, Loop or Flash is running.
// Binders made by jml.Engine.Binder share the engine's clock and lock.
func New(value any, opts ...Option) *Binder {
	b := &Binder{value: value}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	if b.clock == nil {
		b.clock = clock.NewReal(nil)
	}
	return b
}

// Value returns the current value.
func (b *Binder) Value() any { return b.value }

// IsBinder marks b as a reactive cell.
func (b *Binder) IsBinder() bool { return true }

// Bonds returns a copy of the bonds in creation order.
func (b *Binder) Bonds() []*Bond {
	return append([]*Bond(nil), b.bonds...)
}

// Set assigns v, updates every bond in creation order except the one
// pointing back at the binder currently setting b, then calls listeners.
// Listeners run on every assignment, even when v equals the old value.
func (b *Binder) Set(v any) {
	if b.depth >= MaxDepth {
		b.logger.Warn("binder propagation cycle stopped", "depth", b.depth)
		b.setter = nil
		return
	}
	b.depth++
	defer func() { b.depth-- }()

	b.value = v
	for _, bond := range b.Bonds() {
		if b.setter != nil && bond.Target == any(b.setter) {
			continue
		}
		b.update(bond)
	}
	for _, l := range append([]listener(nil), b.listeners...) {
		l.fn(v)
	}
	b.setter = nil
}

// Update sets the value returned by fn applied to the current value.
func (b *Binder) Update(fn func(any) any) {
	b.Set(fn(b.value))
}

// AddListener registers a passive observer and returns its index. A nil
// fn is ignored and returns -1.
func (b *Binder) AddListener(fn func(any)) int {
	if fn == nil {
		return -1
	}
	id := b.next
	b.next++
	b.listeners = append(b.listeners, listener{id: id, fn: fn})
	return id
}

// RemoveListener removes a listener by index. Unknown or already removed
// indexes are ignored.
func (b *Binder) RemoveListener(id int) {
	for i, l := range b.listeners {
		if l.id == id {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			return
		}
	}
}

// ListenerCount returns the number of registered listeners.
func (b *Binder) ListenerCount() int { return len(b.listeners) }

// addBond appends bond and pushes the current value through it once.
func (b *Binder) addBond(bond *Bond) {
	if bond.As == nil {
		bond.As = identity
	}
	if bond.apply == nil {
		bond.apply = b.apply
	}
	b.bonds = append(b.bonds, bond)
	b.update(bond)
}

func (b *Binder) update(bond *Bond) {
	if bond.Target == nil {
		return
	}
	v := bond.As(b.value)
	switch t := bond.Target.(type) {
	case *Binder:
		t.setter = b
		t.Set(v)
	case typify.Node:
		if bond.apply == nil {
			b.logger.Warn("bond to node has no applier", "station", bond.Station)
			return
		}
		if bond.Type != "" {
			bond.apply(t, model.Object{{Key: bond.Station, Value: v}}, bond.Type)
			return
		}
		bond.apply(t, v, bond.Station)
	}
}

func identity(v any) any { return v }
