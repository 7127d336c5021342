package jml

import (
	"path"
	"strings"

	"github.com/jml-dev/jml/pkg/css"
	"github.com/jml-dev/jml/pkg/dom"
	"github.com/jml-dev/jml/pkg/markdown"
	"github.com/jml-dev/jml/pkg/model"
	"github.com/jml-dev/jml/pkg/reactive"
	"github.com/jml-dev/jml/pkg/typify"
)

// Handler is the full event handler signature. Function models may also
// be func(*dom.Event), func(*dom.Node) or func().
type Handler func(ev *dom.Event, node *dom.Node)

// Widget is a host object wrapping an element that can take named
// callbacks. A function model whose station is not an event is offered to
// the widget first.
type Widget interface {
	typify.Widget
	On(name string, fn func(*dom.Event)) bool
}

// applyBinder bonds a binder, or a descriptor built from binders, to the
// station. Other cells are resolved to their value and processing goes on.
func (e *Engine) applyBinder(c *call) (any, bool) {
	m := c.model
	if b, ok := m.(*reactive.Binder); ok {
		m = b.Bind()
	}
	switch d := m.(type) {
	case *reactive.Bind:
		d.Attach(c.node, c.station, e.applyNode)
		return c.node, true
	case typify.Cell:
		c.model = d.Value()
		c.kind = typify.KindOf(c.model)
		return nil, false
	}
	e.logger.Warn("unsupported bind descriptor", "station", c.station)
	return c.node, true
}

// applyCSS scopes the style model to the node's id (unless the node is
// the head or body) and appends it to the head.
func (e *Engine) applyCSS(c *call) (any, bool) {
	if c.node == e.doc.Head || c.node == e.doc.Body {
		return e.sheet(c.model), true
	}
	sel := "#" + e.stableID(c.node)
	if s, ok := c.model.(string); ok {
		return e.sheet(sel + " {\n  " + strings.TrimSpace(s) + "\n}\n"), true
	}
	return e.sheet(model.Object{{Key: sel, Value: c.model}}), true
}

func (e *Engine) applyMarkdown(c *call) (any, bool) {
	if err := c.node.SetInnerHTML(markdown.ToHTML(typify.Text(c.model))); err != nil {
		e.logger.Warn("invalid markdown output", "error", err)
	}
	return c.node, true
}

// prepareHead rewrites head-only shorthands before the generic rules see
// them.
func (e *Engine) prepareHead(c *call) (any, bool) {
	switch c.low {
	case "font":
		if c.kind == typify.KindObject {
			return e.sheet(model.Object{{Key: "fontFace", Value: c.model}}), true
		}
	case "style":
		if _, has := model.Lookup(c.model, "content"); !has {
			text, ok := c.model.(string)
			if !ok {
				text = css.Stylesheet(c.model)
			}
			return e.Set(c.node, model.Object{{Key: "content", Value: text}}, "style"), true
		}
	case "keywords":
		if items, ok := model.Items(c.model); ok {
			words := make([]string, len(items))
			for i, it := range items {
				words[i] = typify.Text(it)
			}
			c.model = strings.Join(words, ",")
		}
	case "viewport":
		if c.kind == typify.KindObject {
			var parts []string
			for _, en := range model.Entries(c.model) {
				parts = append(parts, typify.Uncamelize(en.Key)+"="+typify.Text(en.Value))
			}
			c.model = strings.Join(parts, ",")
		}
	}
	c.kind = typify.KindOf(c.model)
	return nil, false
}

// prepareStyleElement turns a style model applied to a <style> element
// into stylesheet text.
func prepareStyleElement(c *call) (any, bool) {
	c.model = css.Stylesheet(c.model)
	c.kind = typify.KindString
	return nil, false
}

// applyClass adds listed classes, or toggles each key of a mapping by the
// truthiness of its value. Binder values keep the class in sync.
func (e *Engine) applyClass(c *call) (any, bool) {
	if c.hasFlag && c.flag {
		c.node.RemoveAttribute("class")
	}
	if items, ok := model.Items(c.model); ok {
		for _, it := range items {
			if typify.Truthy(it) {
				c.node.AddClass(typify.Text(it))
			}
		}
		return c.node, true
	}
	for _, en := range model.Entries(c.model) {
		if d := descriptor(en.Value); d != nil {
			d.Attach(c.node, en.Key, toggleClass)
			continue
		}
		c.node.ToggleClass(en.Key, typify.Truthy(en.Value))
	}
	return c.node, true
}

func toggleClass(node typify.Node, v any, station string) {
	if n, ok := node.(*dom.Node); ok {
		n.ToggleClass(station, typify.Truthy(v))
	}
}

// applyAttributes sets every key as an attribute, whatever its name.
func (e *Engine) applyAttributes(c *call) (any, bool) {
	for _, en := range model.Entries(c.model) {
		e.Set(c.node, en.Value, c.passArgs("*"+en.Key)...)
	}
	return c.node, true
}

// applyStyle handles the style station outside the head: text replaces
// the inline style, a mapping assigns each property, and a mapping with
// content falls through to create a <style> element. Plain values under a
// style name only touch the style, even when the name is also an
// attribute (color, width, height).
func (e *Engine) applyStyle(c *call) (any, bool) {
	if typify.IsPrimitive(c.model) {
		c.node.SetAttribute("style", typify.Text(c.model))
		return c.node, true
	}
	content, has := model.Lookup(c.model, "content")
	if !has {
		if c.clear {
			c.node.RemoveAttribute("style")
		}
		for _, en := range model.Entries(c.model) {
			if k := typify.KindOf(en.Value); (k == typify.KindString || k == typify.KindNumber) && e.isStyle(en.Key) {
				c.node.SetStyle(en.Key, typify.Text(en.Value))
				continue
			}
			e.Set(c.node, en.Value, c.passArgs(en.Key)...)
		}
		return c.node, true
	}
	if model.IsMapping(content) {
		c.model = model.ToObject(c.model).Clone().Set("content", css.Stylesheet(content))
	}
	return nil, false
}

// applyListener handles the legacy listener stations, taking either
// [type, fn, options] or {type|event, listener|function|method|call,
// options|useCapture}.
func (e *Engine) applyListener(c *call) (any, bool) {
	if items, ok := model.Items(c.model); ok {
		if len(items) < 2 {
			e.logger.Warn("listener needs a type and a function", "station", c.station)
			return c.node, true
		}
		e.listen(c.node, typify.Text(items[0]), items[1], optionsAt(items, 2))
		return c.node, true
	}
	if c.kind != typify.KindObject {
		return nil, false
	}
	typ := firstOf(c.model, "type", "event")
	fn := firstOf(c.model, "listener", "function", "method", "call")
	opts := firstOf(c.model, "options", "useCapture")
	e.listen(c.node, typify.Text(typ), fn, options(opts))
	return c.node, true
}

// listen registers fn for typ on n.
func (e *Engine) listen(n *dom.Node, typ string, fn any, opts dom.ListenerOptions) {
	h := handler(fn)
	if h == nil || typ == "" {
		e.logger.Warn("invalid event listener", "event", typ)
		return
	}
	n.AddEventListener(typ, func(ev *dom.Event) { h(ev, n) }, opts)
}

func optionsAt(items []any, i int) dom.ListenerOptions {
	if i < len(items) {
		return options(items[i])
	}
	return dom.ListenerOptions{}
}

// options reads listener options from a bool (capture) or a mapping.
func options(v any) dom.ListenerOptions {
	if b, ok := v.(bool); ok {
		return dom.ListenerOptions{Capture: b}
	}
	capture, _ := model.Lookup(v, "capture")
	once, _ := model.Lookup(v, "once")
	return dom.ListenerOptions{Capture: typify.Truthy(capture), Once: typify.Truthy(once)}
}

// applyHeadPrimitive expands head stations into title, meta and link
// elements.
func (e *Engine) applyHeadPrimitive(c *call) (any, bool) {
	v := typify.Text(c.model)
	head := c.node
	el := func(tag string, attrs ...string) *dom.Node {
		n := e.doc.CreateElement(tag)
		for i := 0; i+1 < len(attrs); i += 2 {
			n.SetAttribute(attrs[i], attrs[i+1])
		}
		head.AppendChild(n)
		return n
	}
	switch {
	case c.low == "title":
		t := el("title")
		t.SetTextContent(v)
		return t, true
	case c.low == "icon":
		return el("link", "rel", "icon", "href", v), true
	case c.low == "image":
		return el("meta", "property", "og:image", "content", v), true
	case c.low == "charset":
		return el("meta", "charset", v), true
	case typify.IsMetaName(c.low):
		return el("meta", "name", c.low, "content", v), true
	case typify.IsHTTPEquiv(c.station):
		return el("meta", "http-equiv", typify.Uncamelize(c.station), "content", v), true
	case c.low == "font":
		family := strings.SplitN(path.Base(v), ".", 2)[0]
		src := v
		if !strings.HasPrefix(src, "url") {
			src = "url(" + src + ")"
		}
		return e.sheet(model.Object{{Key: "fontFace", Value: model.Object{
			{Key: "fontFamily", Value: family},
			{Key: "src", Value: src},
		}}}), true
	case c.low == "link":
		return e.Set(head, model.Object{
			{Key: "rel", Value: typify.DocType(v)},
			{Key: "href", Value: v},
		}, "link"), true
	}
	return nil, false
}

// firstOf returns the first present key of a mapping.
func firstOf(m any, keys ...string) any {
	for _, k := range keys {
		if v, ok := model.Lookup(m, k); ok && v != nil {
			return v
		}
	}
	return nil
}

// descriptor returns a bind descriptor for binder-like values.
func descriptor(v any) *reactive.Bind {
	switch d := v.(type) {
	case *reactive.Binder:
		return d.Bind()
	case *reactive.Bind:
		return d
	}
	return nil
}

// handler adapts the accepted event handler signatures.
func handler(fn any) Handler {
	switch f := fn.(type) {
	case Handler:
		return f
	case func(*dom.Event, *dom.Node):
		return f
	case func(*dom.Event):
		return func(ev *dom.Event, _ *dom.Node) { f(ev) }
	case func(*dom.Node):
		return func(_ *dom.Event, n *dom.Node) { f(n) }
	case func():
		return func(*dom.Event, *dom.Node) { f() }
	}
	return nil
}

// nodeCallback adapts the accepted node callback signatures. The result
// reports whether a repeating callback should continue.
func nodeCallback(fn any) func(*dom.Node) bool {
	switch f := fn.(type) {
	case func(*dom.Node):
		return func(n *dom.Node) bool { f(n); return true }
	case func(*dom.Node) bool:
		return f
	case func():
		return func(*dom.Node) bool { f(); return true }
	case func() bool:
		return func(*dom.Node) bool { return f() }
	case func(any):
		return func(n *dom.Node) bool { f(n); return true }
	}
	return nil
}
