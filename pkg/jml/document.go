package jml

import (
	"net/url"
	"strings"
	"time"

	"github.com/jml-dev/jml/pkg/css"
	"github.com/jml-dev/jml/pkg/dom"
	"github.com/jml-dev/jml/pkg/model"
	"github.com/jml-dev/jml/pkg/typify"
)

// RevealDelay is how long Apply keeps the body hidden after injecting a
// model's css.
const RevealDelay = 600 * time.Millisecond

// Apply applies a top-level model to the document. A node in args
// redirects the call to Set on that node. Otherwise head stations go to
// the head and everything else to the body, once the document has loaded.
// A css key is injected first and the body is hidden for RevealDelay. A
// true flag clears the body. The reset stylesheet is injected on the first
// call.
//
// Apply returns what Set returned for the body, or nil when the document
// has not loaded yet. On a real clock the reveal timer takes Locker(), so
// callers touching the document afterwards must hold it (see New).
func (e *Engine) Apply(m any, args ...any) any {
	for _, a := range args {
		if n, ok := a.(*dom.Node); ok && n != nil {
			return e.Set(n, m, args...)
		}
	}
	if !e.reset {
		e.reset = true
		e.sheet(css.Reset)
	}
	c := e.classifier.Classify(args...)

	if model.IsMapping(m) {
		obj := model.ToObject(m).Clone()
		if style, ok := obj.Get("css"); ok {
			e.sheet(style)
			obj = obj.Without("css").Set("visibility", "hidden")
			e.clock.AfterFunc(RevealDelay, func() {
				e.Set(e.doc.Body, "visible", "visibility")
			})
		}
		var head, body model.Object
		for _, en := range obj {
			if typify.IsHeadStation(en.Key) {
				head = append(head, en)
			} else {
				body = append(body, en)
			}
		}
		if len(head) > 0 {
			e.Set(e.doc.Head, head)
		}
		if tag, ok := body.Get("tag"); ok {
			args = append(args, typify.Text(tag))
		}
		m = body
	} else if _, isSeq := model.Items(m); typify.IsPrimitive(m) || (isSeq && len(c.Strings) == 0) {
		args = append(args, "section")
	}

	if flag, ok := c.FirstBool(); ok && flag {
		e.doc.Body.ClearChildren()
	}
	var out any
	e.doc.OnLoad(func() {
		out = e.Set(e.doc.Body, m, args...)
	})
	return out
}

// Element builds a detached node from model. tag defaults to section.
func (e *Engine) Element(m any, tag ...string) *dom.Node {
	t := "section"
	if len(tag) > 0 && tag[0] != "" {
		t = tag[0]
	}
	holder := e.doc.CreateElement("template")
	n, _ := e.Set(holder, m, t).(*dom.Node)
	if n == nil || n == holder {
		return nil
	}
	n.Remove()
	return n
}

// HTML renders model, or a node, as markup.
func (e *Engine) HTML(m any, tag ...string) string {
	if m == nil {
		return ""
	}
	if n, ok := m.(*dom.Node); ok {
		return n.OuterHTML()
	}
	n := e.Element(m, tag...)
	if n == nil {
		return ""
	}
	return n.OuterHTML()
}

// Style appends a stylesheet model, or raw stylesheet text, to the head.
func (e *Engine) Style(m any) *dom.Node {
	n, _ := e.Set(e.doc.Body, m, "css").(*dom.Node)
	return n
}

// QueryString parses a search string. Pairs ("a=1&b=2") yield a
// model.Object in order; anything else yields the "/"-separated segments.
// An empty search yields an empty model.Object.
func QueryString(search string) any {
	qs := strings.TrimPrefix(search, "?")
	if qs == "" {
		return model.Object{}
	}
	if strings.Contains(qs, "=") {
		var out model.Object
		for _, pair := range strings.Split(qs, "&") {
			if pair == "" {
				continue
			}
			k, v, _ := strings.Cut(pair, "=")
			if uk, err := url.QueryUnescape(k); err == nil {
				k = uk
			}
			if uv, err := url.QueryUnescape(v); err == nil {
				v = uv
			}
			out = out.Set(k, v)
		}
		return out
	}
	if uq, err := url.PathUnescape(qs); err == nil {
		qs = uq
	}
	return strings.Split(qs, "/")
}

// QueryString parses the document's location search.
func (e *Engine) QueryString() any {
	return QueryString(e.doc.Location.Search())
}
