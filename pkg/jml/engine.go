package jml

import (
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/jml-dev/jml/pkg/clock"
	"github.com/jml-dev/jml/pkg/css"
	"github.com/jml-dev/jml/pkg/dom"
	"github.com/jml-dev/jml/pkg/model"
	"github.com/jml-dev/jml/pkg/reactive"
	"github.com/jml-dev/jml/pkg/typify"
)

// Engine applies models to the nodes of one document.
type Engine struct {
	doc        *dom.Document
	registry   *dom.Registry
	clock      clock.Clock
	logger     *slog.Logger
	classifier *typify.Classifier
	mu         sync.Mutex

	rules  []rule
	ids    int
	reset  bool
	timers map[timerKey]*task
}

// timerKey identifies the animation or interval running on one station.
type timerKey struct {
	node    *dom.Node
	station string
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithRegistry sets the id registry. Defaults to the document's.
func WithRegistry(r *dom.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithClock sets the timer service. Defaults to a real clock guarded by
// the engine's lock.
func WithClock(c clock.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithClassifier sets the argument classifier, and with it the style probe.
func WithClassifier(c *typify.Classifier) Option {
	return func(e *Engine) { e.classifier = c }
}

// WithoutReset skips the reset stylesheet Apply injects on first use.
func WithoutReset() Option {
	return func(e *Engine) { e.reset = true }
}

// New creates an engine over doc.
//
// An engine is not safe for concurrent use. Without WithClock it runs its
// timers on a real clock whose callbacks hold Locker(), so once a model
// schedules anything (an animation, an interval, the css reveal) every
// other call into the engine, its document or its binders must hold
// Locker() too, for example through Do. Engines on a clock.Manual need no
// locking.
func New(doc *dom.Document, opts ...Option) *Engine {
	e := &Engine{
		doc:    doc,
		timers: make(map[timerKey]*task),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.registry == nil {
		e.registry = doc.Registry
	}
	if e.clock == nil {
		e.clock = clock.NewReal(&e.mu)
	}
	if e.classifier == nil {
		e.classifier = &typify.Classifier{Probe: doc.IsStyle}
	}
	e.rules = e.table()
	return e
}

// Document returns the engine's document.
func (e *Engine) Document() *dom.Document { return e.doc }

// Registry returns the id registry.
func (e *Engine) Registry() *dom.Registry { return e.registry }

// Clock returns the timer service.
func (e *Engine) Clock() clock.Clock { return e.clock }

// Logger returns the diagnostic logger.
func (e *Engine) Logger() *slog.Logger { return e.logger }

// Locker returns the lock timer callbacks hold when the engine owns its
// clock.
func (e *Engine) Locker() sync.Locker { return &e.mu }

// Do runs fn holding Locker().
func (e *Engine) Do(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn()
}

// Binder creates a binder whose node bonds apply through this engine and
// whose walks run on the engine's clock, so they share Locker() with the
// engine's own timers. Extra args are passed to Bind.
func (e *Engine) Binder(value any, args ...any) *reactive.Binder {
	b := reactive.New(value,
		reactive.WithApplier(e.applyNode),
		reactive.WithClock(e.clock),
		reactive.WithLogger(e.logger),
	)
	if len(args) > 0 {
		b.Bind(args...)
	}
	return b
}

// applyNode is the reactive.NodeApplier for bonds created by the engine.
func (e *Engine) applyNode(node typify.Node, value any, station string) {
	n, ok := node.(*dom.Node)
	if !ok {
		e.logger.Warn("bond target is not a dom node", "station", station)
		return
	}
	e.Set(n, value, station)
}

// Let applies value at station. The target is the first node in args, or
// the body.
func (e *Engine) Let(station string, value any, args ...any) any {
	for _, a := range args {
		if n, ok := a.(*dom.Node); ok && n != nil {
			return e.Set(n, value, append([]any{station}, args...)...)
		}
	}
	return e.Set(e.doc.Body, value, append([]any{station}, args...)...)
}

// Get reads station back from the first node in args, or from the head for
// head stations and the body otherwise.
func (e *Engine) Get(station string, args ...any) any {
	for _, a := range args {
		if n, ok := a.(*dom.Node); ok && n != nil {
			return e.get(n, station)
		}
	}
	if typify.IsHeadStation(station) {
		return e.get(e.doc.Head, station)
	}
	return e.get(e.doc.Body, station)
}

func (e *Engine) get(n *dom.Node, station string) any {
	low := strings.ToLower(station)
	switch {
	case station == "" && n.Is("input"):
		return n.Value()
	case station == "" || low == "content" || low == "inner" || low == "innerhtml" || low == "html":
		return n.InnerHTML()
	case low == "text":
		return n.TextContent()
	case low == "outer" || low == "self":
		return n.OuterHTML()
	case typify.IsAttribute(station):
		v, _ := n.GetAttribute(station)
		return v
	case e.isStyle(station):
		return n.Style(station)
	}
	if v, ok := n.Property(station); ok && v != nil {
		return v
	}
	if station == "value" {
		return n.Value()
	}
	if kids := n.QuerySelectorAll(":scope>" + station); len(kids) == 1 {
		return kids[0]
	} else if len(kids) > 1 {
		return kids
	}
	if all := n.QuerySelectorAll(station); len(all) > 0 {
		return all
	}
	return nil
}

func (e *Engine) isStyle(name string) bool {
	return name != "" && e.classifier.IsStyle(name)
}

// stableID returns n's id, assigning a synthetic one when it has none.
func (e *Engine) stableID(n *dom.Node) string {
	if id := n.ID(); id != "" {
		return id
	}
	id := "domid" + strconv.Itoa(e.ids)
	e.ids++
	n.SetID(id)
	return id
}

// sheet appends stylesheet text, or a serialized style model, to the head
// as a new style element.
func (e *Engine) sheet(style any) any {
	text, ok := style.(string)
	if !ok {
		text = css.Stylesheet(style)
	}
	return e.Set(e.doc.Head, model.Object{{Key: "content", Value: text}}, "style")
}

// addID records id for nodes in the registry.
func (e *Engine) addID(id string, nodes ...*dom.Node) {
	e.registry.Add(id, nodes...)
}

// task is one animation or interval. Its timer is replaced on every step.
type task struct {
	timer clock.Timer
}

func (t *task) stop() {
	if t.timer != nil {
		t.timer.Stop()
	}
}

// start cancels whatever runs on (n, station) and registers a new task.
func (e *Engine) start(n *dom.Node, station string) *task {
	e.cancel(n, station)
	t := &task{}
	e.timers[timerKey{node: n, station: station}] = t
	return t
}

// alive reports whether t is still the task running on (n, station).
func (e *Engine) alive(n *dom.Node, station string, t *task) bool {
	return e.timers[timerKey{node: n, station: station}] == t
}

// finish unregisters t if it is still current.
func (e *Engine) finish(n *dom.Node, station string, t *task) {
	if e.alive(n, station, t) {
		delete(e.timers, timerKey{node: n, station: station})
	}
}

// cancel stops the task running on (n, station), reporting whether one
// was running.
func (e *Engine) cancel(n *dom.Node, station string) bool {
	key := timerKey{node: n, station: station}
	t, ok := e.timers[key]
	if !ok {
		return false
	}
	t.stop()
	delete(e.timers, key)
	return true
}

// Running reports whether an animation or interval is scheduled on
// (n, station).
func (e *Engine) Running(n *dom.Node, station string) bool {
	_, ok := e.timers[timerKey{node: n, station: station}]
	return ok
}
