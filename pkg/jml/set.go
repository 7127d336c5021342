package jml

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/jml-dev/jml/pkg/dom"
	"github.com/jml-dev/jml/pkg/model"
	"github.com/jml-dev/jml/pkg/typify"
)

// call is the state of one Set invocation as it moves down the rule table.
type call struct {
	node  *dom.Node
	model any
	kind  typify.Kind
	args  []any
	c     typify.Classification

	station string // as given, after aliasing
	low     string // lower-cased and disambiguated
	clear   bool
	flag    bool
	hasFlag bool
	widget  typify.Widget

	// Parsed compound station.
	tag     string
	classes []string
	id      string
}

// prepend reports whether the placement flag asks for prepending.
func (c *call) prepend() bool { return c.hasFlag && !c.flag }

// passArgs returns the arguments forwarded to nested calls.
func (c *call) passArgs(station ...any) []any {
	if c.widget != nil {
		return append(station, c.widget)
	}
	return station
}

// rule is one row of the station resolution table. apply reports whether
// it handled the call; rules that only rewrite the call return false.
type rule struct {
	name  string
	match func(*call) bool
	apply func(*call) (any, bool)
}

// table lists the rules in priority order.
func (e *Engine) table() []rule {
	return []rule{
		{"nil", isNil, keepNode},
		{"adopt-content", hasNodeContent, e.adoptContent},
		{"repeat-content", hasSequenceContent, e.repeatContent},
		{"station", always, e.resolveStation},
		{"reserved", isReserved, swallow},
		{"function", isFunction, e.applyFunction},
		{"binder", isReactive, e.applyBinder},
		{"animation", e.isAnimation, e.animate},
		{"css", stationIs("css"), e.applyCSS},
		{"text", stationIs("text", "innertext"), applyText},
		{"html", stationIs("html", "innerhtml"), e.applyHTML},
		{"markdown", stationIs("markdown", "md"), e.applyMarkdown},
		{"head", isHead, e.prepareHead},
		{"compound", always, parseCompound},
		{"passthrough", isNodeModel, e.passthrough},
		{"script", isScriptSource, e.applyScript},
		{"style-element", isStyleElementModel, prepareStyleElement},
		{"class", isBulkClass, e.applyClass},
		{"attributes", isBulkAttributes, e.applyAttributes},
		{"style", stationIs("style"), e.applyStyle},
		{"content", stationIs("content"), e.applyContent},
		{"listener", isListener, e.applyListener},
		{"array", isArray, e.applyArray},
		{"head-primitive", isHeadPrimitive, e.applyHeadPrimitive},
		{"primitive", isPrimitive, e.applyPrimitive},
		{"child", always, e.createChild},
	}
}

// Set applies model to node. Positional args are classified by kind: the
// first string is the station, the first bool the placement flag (true
// clears before appending, false prepends or tears down an animation), a
// widget is passed down to nested calls, and every function is called
// with the node a fallback rule creates.
//
// Set returns the node a rule produced: the created child, the adopted
// node, a []any for repeated children, or node itself.
func (e *Engine) Set(node *dom.Node, m any, args ...any) any {
	if node == nil {
		return nil
	}
	c := &call{
		node:  node,
		model: m,
		kind:  typify.KindOf(m),
		args:  args,
		c:     e.classifier.Classify(args...),
	}
	for _, r := range e.rules {
		if !r.match(c) {
			continue
		}
		if out, done := r.apply(c); done {
			return out
		}
	}
	return node
}

// Rule predicates.

func always(*call) bool { return true }

func isNil(c *call) bool { return c.kind == typify.KindNil }

func keepNode(c *call) (any, bool) { return c.node, true }

func swallow(*call) (any, bool) { return nil, true }

func hasNodeContent(c *call) bool {
	v, ok := model.Lookup(c.model, "content")
	if !ok || c.kind != typify.KindObject {
		return false
	}
	k := typify.KindOf(v)
	return k == typify.KindNode || k == typify.KindWidget
}

func hasSequenceContent(c *call) bool {
	if c.kind != typify.KindObject {
		return false
	}
	v, _ := model.Lookup(c.model, "content")
	_, ok := model.Items(v)
	return ok
}

func isReserved(c *call) bool { return typify.IsReserved(c.low) }

func isFunction(c *call) bool { return c.kind == typify.KindFunction }

func isReactive(c *call) bool { return c.kind == typify.KindBinder || c.kind == typify.KindBind }

func stationIs(names ...string) func(*call) bool {
	return func(c *call) bool {
		for _, n := range names {
			if c.low == n {
				return true
			}
		}
		return false
	}
}

func isHead(c *call) bool { return c.node.Is("head") }

func isNodeModel(c *call) bool { return c.kind == typify.KindNode || c.kind == typify.KindWidget }

func isScriptSource(c *call) bool { return c.low == "script" && typify.IsPrimitive(c.model) }

func isStyleElementModel(c *call) bool {
	if !c.node.Is("style") || c.kind != typify.KindObject {
		return false
	}
	_, has := model.Lookup(c.model, "content")
	return !has
}

func isBulkClass(c *call) bool {
	return c.low == "class" && (c.kind == typify.KindObject || c.kind == typify.KindArray)
}

func isBulkAttributes(c *call) bool {
	return (c.low == "attribute" || c.low == "attributes") && c.kind == typify.KindObject
}

func isListener(c *call) bool { return typify.IsListenerStation(c.low) }

func isArray(c *call) bool { return c.kind == typify.KindArray }

func isHeadPrimitive(c *call) bool { return c.node.Is("head") && typify.IsPrimitive(c.model) }

func isPrimitive(c *call) bool { return typify.IsPrimitive(c.model) }

// Rules.

// adoptContent applies a node found under content, then applies every
// other key of the model onto that node.
func (e *Engine) adoptContent(c *call) (any, bool) {
	content, _ := model.Lookup(c.model, "content")
	elt := nodeOf(content)
	e.Set(c.node, content, c.args...)
	if elt == nil {
		return c.node, true
	}
	for _, en := range model.Entries(c.model) {
		if en.Key == "content" {
			continue
		}
		e.Set(elt, en.Value, append([]any{en.Key}, c.args...)...)
	}
	return elt, true
}

// repeatContent applies the model once per content item, each copy
// sharing the sibling keys.
func (e *Engine) repeatContent(c *call) (any, bool) {
	content, _ := model.Lookup(c.model, "content")
	items, _ := model.Items(content)
	obj := model.ToObject(c.model)
	out := make([]any, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		out = append(out, e.Set(c.node, obj.Clone().Set("content", item), c.args...))
	}
	return out, true
}

func (e *Engine) resolveStation(c *call) (any, bool) {
	station, hasStation := c.c.FirstString()
	c.flag, c.hasFlag = c.c.FirstBool()
	c.clear = (c.hasFlag && c.flag) ||
		((!hasStation || station == "") && typify.IsPrimitive(c.model)) ||
		station == "content"
	if typify.IsContentAlias(station) {
		station = "content"
	}
	c.station = station
	c.low = strings.ToLower(station)
	if c.low == "content" && c.node.Is("meta") && typify.IsPrimitive(c.model) {
		c.low = "*content"
	}
	c.widget = c.c.FirstWidget()
	return nil, false
}

func (e *Engine) applyFunction(c *call) (any, bool) {
	node := c.node
	h := handler(c.model)
	if h != nil && typify.IsEvent(c.station) {
		node.AddEventListener(c.station, func(ev *dom.Event) { h(ev, node) })
		return node, true
	}
	if w, ok := c.widget.(Widget); ok && h != nil {
		if w.On(c.station, func(ev *dom.Event) { h(ev, node) }) {
			return node, true
		}
	}
	node.SetProperty(c.station, c.model)
	return node, true
}

func applyText(c *call) (any, bool) {
	c.node.SetTextContent(typify.Text(c.model))
	return c.node, true
}

func (e *Engine) applyHTML(c *call) (any, bool) {
	if err := c.node.SetInnerHTML(typify.Text(c.model)); err != nil {
		e.logger.Warn("invalid markup", "station", c.station, "error", err)
	}
	return c.node, true
}

// parseCompound splits tag#id.class1.class2 or tag_class1_class2. A tag
// whose lower-case form differs and that starts lower-case (e.g. myCard)
// names an id instead, and the tag falls back to section or the model's
// own tag.
func parseCompound(c *call) (any, bool) {
	sep := "_"
	if strings.Contains(c.station, ".") {
		sep = "."
	}
	parts := strings.Split(c.station, sep)
	tag := parts[0]
	for _, p := range parts[1:] {
		if p != "" && !isNumeric(p) {
			c.classes = append(c.classes, p)
		}
	}
	if before, after, ok := strings.Cut(tag, "#"); ok {
		tag, c.id = before, after
	}
	lowTag := strings.ToLower(tag)
	explicit := ""
	if v, ok := model.Lookup(c.model, "tag"); ok {
		explicit = typify.Text(v)
	}
	if explicit != "" {
		lowTag = strings.ToLower(explicit)
	}
	if tag != "" && lowTag != tag && unicode.IsLower(rune(tag[0])) {
		c.id = tag
		if explicit == "" {
			lowTag = "section"
		}
	}
	c.tag = lowTag
	if v, ok := model.Lookup(c.model, "id"); ok && typify.Text(v) != "" {
		c.id = typify.Text(v)
	}
	return nil, false
}

// passthrough attaches an existing node instead of creating one.
func (e *Engine) passthrough(c *call) (any, bool) {
	elt := nodeOf(c.model)
	if elt == nil {
		e.logger.Warn("widget has no dom element", "station", c.station)
		return c.node, true
	}
	if c.id != "" {
		if elt.ID() == "" {
			elt.SetID(c.id)
		}
		e.addID(c.id, elt)
	} else if c.low != "content" && c.tag != "" && c.tag != elt.Tag {
		e.addID(c.tag, elt)
	}
	if c.clear {
		c.node.ClearChildren()
	}
	elt.AddClass(c.classes...)
	if c.prepend() {
		c.node.Prepend(elt)
	} else {
		c.node.AppendChild(elt)
	}
	return elt, true
}

func (e *Engine) applyScript(c *call) (any, bool) {
	return e.Set(c.node, model.Object{{Key: "script", Value: model.Object{{Key: "src", Value: c.model}}}}), true
}

func (e *Engine) applyContent(c *call) (any, bool) {
	if c.clear {
		c.node.ClearChildren()
	}
	if typify.IsPrimitive(c.model) {
		e.appendPrimitive(c.node, c.model)
		return c.node, true
	}
	if items, ok := model.Items(c.model); ok {
		for _, item := range items {
			if typify.IsPrimitive(item) {
				e.appendPrimitive(c.node, item)
				continue
			}
			e.Set(c.node, item, c.passArgs()...)
		}
		return c.node, true
	}
	for _, en := range model.Entries(c.model) {
		e.Set(c.node, en.Value, c.passArgs(en.Key)...)
	}
	return c.node, true
}

// appendPrimitive sets an input's value, or appends v as markup.
func (e *Engine) appendPrimitive(n *dom.Node, v any) {
	if n.Is("input") {
		n.SetValue(typify.Text(v))
		return
	}
	if err := n.AppendHTML(typify.Text(v)); err != nil {
		e.logger.Warn("invalid markup", "tag", n.Tag, "error", err)
	}
}

// applyArray repeats the station once per item, or spreads the items as
// listener arguments when the station is an event.
func (e *Engine) applyArray(c *call) (any, bool) {
	items, _ := model.Items(c.model)
	if typify.IsEvent(c.station) && len(items) > 0 {
		e.listen(c.node, c.station, items[0], optionsAt(items, 1))
		return c.node, true
	}
	station := strings.Join(append([]string{c.tag}, c.classes...), ".")
	out := make([]any, 0, len(items))
	var nodes []*dom.Node
	for _, item := range items {
		if item == nil {
			continue
		}
		r := e.Set(c.node, item, c.passArgs(station)...)
		out = append(out, r)
		if n, ok := r.(*dom.Node); ok {
			nodes = append(nodes, n)
		}
	}
	if c.id != "" {
		e.addID(c.id, nodes...)
	}
	return out, true
}

// applyPrimitive assigns a style property, an attribute, or both. Names
// containing "*" and data-/aria- names are always attributes.
func (e *Engine) applyPrimitive(c *call) (any, bool) {
	v := typify.Text(c.model)
	done := false
	if e.isStyle(c.station) {
		c.node.SetStyle(c.station, v)
		done = true
	}
	if typify.IsAttribute(c.station) || strings.Contains(c.low, "*") ||
		strings.HasPrefix(c.low, "data-") || strings.HasPrefix(c.low, "aria-") {
		c.node.SetAttribute(strings.ReplaceAll(c.low, "*", ""), v)
		done = true
	}
	if !done {
		return nil, false
	}
	return c.node, true
}

// createChild treats the station as a tag and builds a new child from the
// model.
func (e *Engine) createChild(c *call) (any, bool) {
	tag := strings.ReplaceAll(c.tag, "*", "")
	if !validTag(tag) {
		tag = "section"
	}
	elem := e.doc.CreateElement(tag)
	e.Set(elem, c.model, c.passArgs()...)
	elem.AddClass(c.classes...)
	if c.id != "" {
		elem.SetID(c.id)
		e.addID(c.id, elem)
	}
	if c.prepend() {
		c.node.Prepend(elem)
	} else {
		c.node.AppendChild(elem)
	}
	e.lifecycle(elem, c.model)
	for _, fn := range c.c.Functions {
		if f := nodeCallback(fn); f != nil {
			f(elem)
		}
	}
	return elem, true
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// validTag reports whether s can name an element.
func validTag(s string) bool {
	if s == "" || isNumeric(s) || !unicode.IsLetter(rune(s[0])) {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' {
			return false
		}
	}
	return true
}

// nodeOf unwraps a node or widget model.
func nodeOf(v any) *dom.Node {
	switch x := v.(type) {
	case *dom.Node:
		return x
	case typify.Widget:
		n, _ := x.Elt().(*dom.Node)
		return n
	}
	return nil
}
