package jml

import (
	"strings"
	"testing"
	"time"

	"github.com/jml-dev/jml/pkg/clock"
	"github.com/jml-dev/jml/pkg/dom"
	"github.com/jml-dev/jml/pkg/model"
	"github.com/jml-dev/jml/pkg/typify"
)

func newEngine(t *testing.T, opts ...dom.Option) (*Engine, *dom.Document, *clock.Manual) {
	t.Helper()
	doc := dom.NewDocument(opts...)
	m := clock.NewManual(time.Unix(0, 0))
	return New(doc, WithClock(m), WithoutReset()), doc, m
}

func lastStyle(doc *dom.Document) string {
	styles := doc.Head.QuerySelectorAll("style")
	if len(styles) == 0 {
		return ""
	}
	return styles[len(styles)-1].TextContent()
}

func TestParagraphFromModel(t *testing.T) {
	e, doc, _ := newEngine(t)
	e.Set(doc.Body, model.Object{{Key: "p", Value: "Hello"}})

	kids := doc.Body.Children()
	if len(kids) != 1 {
		t.Fatalf("body has %d children, want 1", len(kids))
	}
	if kids[0].Tag != "p" || kids[0].TextContent() != "Hello" {
		t.Errorf("got <%s>%q", kids[0].Tag, kids[0].TextContent())
	}
}

func TestTextStation(t *testing.T) {
	e, doc, _ := newEngine(t)
	n := doc.CreateElement("div")
	n.AppendChild(doc.CreateElement("span"))

	for _, v := range []any{"<b>bold</b>", 42, 2.5, true} {
		e.Set(n, v, "text")
		if len(n.Children()) != 0 {
			t.Errorf("text %v created element children", v)
		}
	}
	if got := n.TextContent(); got != "true" {
		t.Errorf("text = %q", got)
	}
	e.Set(n, "<b>bold</b>", "text")
	if got := n.InnerHTML(); got != "&lt;b&gt;bold&lt;/b&gt;" {
		t.Errorf("markup = %q", got)
	}
}

func TestClassToggle(t *testing.T) {
	e, doc, _ := newEngine(t)
	n := doc.CreateElement("div")
	n.AddClass("hidden")
	e.Set(n, model.Object{{Key: "class", Value: map[string]any{"active": true, "hidden": false}}})
	if !n.HasClass("active") || n.HasClass("hidden") {
		t.Errorf("classes = %v", n.ClassList())
	}

	e.Set(n, []any{"a", "", "b"}, "class")
	if !n.HasClass("a") || !n.HasClass("b") || len(n.ClassList()) != 3 {
		t.Errorf("classes = %v", n.ClassList())
	}
}

func TestCSSStationAssignsID(t *testing.T) {
	e, doc, _ := newEngine(t)
	n := doc.CreateElement("div")
	doc.Body.AppendChild(n)
	e.Set(n, model.Object{{Key: "css", Value: model.Object{{Key: "color", Value: "red"}}}})

	if n.ID() != "domid0" {
		t.Fatalf("id = %q", n.ID())
	}
	if got, want := lastStyle(doc), "#domid0 {\n  color: red;\n}\n"; got != want {
		t.Errorf("style = %q, want %q", got, want)
	}

	e.Set(n, "font-weight: bold;", "css")
	if n.ID() != "domid0" {
		t.Errorf("id changed to %q", n.ID())
	}
	if got := lastStyle(doc); !strings.Contains(got, "#domid0 {") || !strings.Contains(got, "font-weight: bold;") {
		t.Errorf("style = %q", got)
	}

	other := doc.CreateElement("p")
	e.Set(other, map[string]any{"margin": 0}, "css")
	if other.ID() != "domid1" {
		t.Errorf("second id = %q", other.ID())
	}
}

func TestBinderTextStation(t *testing.T) {
	e, doc, _ := newEngine(t)
	card := doc.CreateElement("p")
	other := doc.CreateElement("p")
	other.SetTextContent("untouched")
	doc.Body.AppendChild(card, other)

	suit := e.Binder("♠")
	e.Set(card, suit, "text")
	if got := card.TextContent(); got != "♠" {
		t.Fatalf("text = %q", got)
	}
	suit.Set("♥")
	if got := card.TextContent(); got != "♥" {
		t.Errorf("text = %q", got)
	}
	if other.TextContent() != "untouched" {
		t.Error("unrelated node changed")
	}
	if suit.ListenerCount() != 0 {
		t.Errorf("listener left behind: %d", suit.ListenerCount())
	}
}

func TestBinderInsideModel(t *testing.T) {
	e, doc, _ := newEngine(t)
	name := e.Binder("ada")
	on := e.Binder(true)
	color := e.Binder("red")

	e.Set(doc.Body, model.Object{{Key: "div", Value: model.Object{
		{Key: "h2", Value: model.Object{{Key: "text", Value: name.As(strings.ToUpper)}}},
		{Key: "class", Value: model.Object{{Key: "on", Value: on}}},
		{Key: "color", Value: color.Bind("style")},
	}}})
	div := doc.Body.FirstChild()
	h2 := div.QuerySelector("h2")

	if h2.TextContent() != "ADA" || !div.HasClass("on") || div.Style("color") != "red" {
		t.Fatalf("initial: text=%q classes=%v color=%q", h2.TextContent(), div.ClassList(), div.Style("color"))
	}
	name.Set("grace")
	on.Set(false)
	color.Set("blue")
	if h2.TextContent() != "GRACE" || div.HasClass("on") || div.Style("color") != "blue" {
		t.Errorf("updated: text=%q classes=%v color=%q", h2.TextContent(), div.ClassList(), div.Style("color"))
	}
}

func TestCompoundStations(t *testing.T) {
	tests := []struct {
		station string
		tag     string
		id      string
		classes []string
	}{
		{"div#main.card.big", "div", "main", []string{"card", "big"}},
		{"p_lead", "p", "", []string{"lead"}},
		{"li_item_2", "li", "", []string{"item"}},
		{"myCard", "section", "myCard", nil},
		{"H1", "h1", "", nil},
		{"404", "section", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.station, func(t *testing.T) {
			e, doc, _ := newEngine(t)
			n, ok := e.Set(doc.Body, model.Object{{Key: "b", Value: "x"}}, tt.station).(*dom.Node)
			if !ok {
				t.Fatal("no node returned")
			}
			if n.Tag != tt.tag {
				t.Errorf("tag = %q, want %q", n.Tag, tt.tag)
			}
			if n.ID() != tt.id {
				t.Errorf("id = %q, want %q", n.ID(), tt.id)
			}
			for _, c := range tt.classes {
				if !n.HasClass(c) {
					t.Errorf("missing class %q in %v", c, n.ClassList())
				}
			}
			if tt.id != "" && e.Registry().Get(tt.id) != n {
				t.Errorf("registry does not hold %q", tt.id)
			}
		})
	}
}

func TestModelTagAndID(t *testing.T) {
	e, doc, _ := newEngine(t)
	n := e.Set(doc.Body, model.Object{
		{Key: "tag", Value: "article"},
		{Key: "id", Value: "intro"},
		{Key: "p", Value: "x"},
	}, "card").(*dom.Node)
	if n.Tag != "article" || n.ID() != "intro" {
		t.Errorf("got <%s id=%q>", n.Tag, n.ID())
	}
	if n.HasAttribute("tag") {
		t.Error("tag should not become an attribute")
	}
}

func TestStyleAndAttributes(t *testing.T) {
	e, doc, _ := newEngine(t)
	div := doc.CreateElement("div")
	e.Set(div, model.Object{
		{Key: "style", Value: model.Object{{Key: "color", Value: "red"}, {Key: "fontSize", Value: "2em"}}},
		{Key: "attributes", Value: model.Object{{Key: "href", Value: "/x"}, {Key: "data-id", Value: 3}}},
		{Key: "backgroundColor", Value: "black"},
		{Key: "data-role", Value: "card"},
	})
	if div.Style("fontSize") != "2em" || div.Style("color") != "red" || div.Style("backgroundColor") != "black" {
		t.Errorf("style = %q", div.StyleText())
	}
	if v, ok := div.GetAttribute("color"); ok {
		t.Errorf("style mapping set color attribute %q", v)
	}
	span := doc.CreateElement("span")
	e.Set(span, "blue", "color")
	if v, _ := span.GetAttribute("color"); v != "blue" || span.Style("color") != "blue" {
		t.Errorf("bare color station: attr %q style %q", v, span.StyleText())
	}
	for key, want := range map[string]string{"href": "/x", "data-id": "3", "data-role": "card"} {
		if v, _ := div.GetAttribute(key); v != want {
			t.Errorf("%s = %q, want %q", key, v, want)
		}
	}

	e.Set(div, "margin: 0", "style")
	if div.StyleText() != "margin: 0;" {
		t.Errorf("style text = %q", div.StyleText())
	}
}

func TestContentStation(t *testing.T) {
	e, doc, _ := newEngine(t)
	div := doc.CreateElement("div")
	e.Set(div, "<i>one</i>")
	e.Set(div, "two", "content")
	if div.InnerHTML() != "two" {
		t.Errorf("content replaces: %q", div.InnerHTML())
	}
	e.Set(div, []any{"a", model.Object{{Key: "b", Value: "c"}}, "d"})
	if got := div.InnerHTML(); got != "twoa<b>c</b>d" {
		t.Errorf("sequence content: %q", got)
	}

	input := doc.CreateElement("input")
	e.Set(input, "typed")
	if input.Value() != "typed" {
		t.Errorf("input value = %q", input.Value())
	}

	meta := doc.CreateElement("meta")
	e.Set(meta, model.Object{{Key: "name", Value: "author"}, {Key: "content", Value: "me"}})
	if v, _ := meta.GetAttribute("content"); v != "me" || len(meta.ChildNodes()) != 0 {
		t.Errorf("meta content = %q, children = %d", v, len(meta.ChildNodes()))
	}
}

func TestAdoptAndRepeatContent(t *testing.T) {
	e, doc, _ := newEngine(t)
	em := doc.CreateElement("em")
	got := e.Set(doc.Body, model.Object{{Key: "content", Value: em}, {Key: "color", Value: "red"}})
	if got != em || em.Parent() != doc.Body || em.Style("color") != "red" {
		t.Errorf("adopt: parent=%v color=%q", em.Parent(), em.Style("color"))
	}

	ul := doc.CreateElement("ul")
	e.Set(ul, model.Object{{Key: "content", Value: []any{"a", nil, "b"}}, {Key: "class", Value: "item"}}, "li")
	items := ul.QuerySelectorAll("li.item")
	if len(items) != 2 || items[0].TextContent() != "a" || items[1].TextContent() != "b" {
		t.Errorf("repeat: %s", ul.OuterHTML())
	}
}

func TestArraysRepeatChildren(t *testing.T) {
	e, doc, _ := newEngine(t)
	ul := doc.CreateElement("ul")
	out := e.Set(ul, []string{"a", "b", "c"}, "li#row.item")
	if list, ok := out.([]any); !ok || len(list) != 3 {
		t.Fatalf("result = %#v", out)
	}
	if got := ul.InnerHTML(); got != `<li class="item">a</li><li class="item">b</li><li class="item">c</li>` {
		t.Errorf("markup = %q", got)
	}
	if n := len(e.Registry().Lookup("row")); n != 3 {
		t.Errorf("registry row has %d nodes", n)
	}
}

func TestExistingNodePassthrough(t *testing.T) {
	e, doc, _ := newEngine(t)
	doc.Body.AppendChild(doc.CreateElement("p"))
	card := doc.CreateElement("article")
	e.Set(doc.Body, card, "hero.big")
	if doc.Body.Children()[1] != card || !card.HasClass("big") {
		t.Errorf("append: %s", doc.Body.OuterHTML())
	}
	if e.Registry().Get("hero") != card {
		t.Error("station should register the node")
	}

	first := doc.CreateElement("header")
	e.Set(doc.Body, first, false)
	if doc.Body.FirstChild() != first {
		t.Error("false flag should prepend")
	}
	e.Set(doc.Body, card, true)
	if len(doc.Body.Children()) != 1 {
		t.Errorf("true flag should clear: %s", doc.Body.OuterHTML())
	}
}

func TestPrependFlagOnNewChild(t *testing.T) {
	e, doc, _ := newEngine(t)
	e.Set(doc.Body, "second", "p")
	e.Set(doc.Body, "first", "p", false)
	if got := doc.Body.InnerHTML(); got != "<p>first</p><p>second</p>" {
		t.Errorf("markup = %q", got)
	}
}

func TestEvents(t *testing.T) {
	e, doc, _ := newEngine(t)
	btn := doc.CreateElement("button")
	doc.Body.AppendChild(btn)

	var clicked *dom.Node
	var typed []string
	e.Set(btn, model.Object{
		{Key: "click", Value: func(ev *dom.Event, n *dom.Node) { clicked = n }},
		{Key: "on", Value: model.Object{
			{Key: "event", Value: "keyup"},
			{Key: "call", Value: func(ev *dom.Event) { typed = append(typed, ev.Type) }},
			{Key: "options", Value: model.Object{{Key: "once", Value: true}}},
		}},
		{Key: "focus", Value: []any{func() { typed = append(typed, "focus") }}},
		{Key: "listener", Value: []any{"blur", func() { typed = append(typed, "blur") }}},
		{Key: "onSwipe", Value: func() {}},
	})
	btn.Dispatch("click")
	btn.Dispatch("keyup")
	btn.Dispatch("keyup")
	btn.Dispatch("focus")
	btn.Dispatch("blur")

	if clicked != btn {
		t.Error("click handler not called with the node")
	}
	if got := strings.Join(typed, ","); got != "keyup,focus,blur" {
		t.Errorf("events = %q", got)
	}
	if _, ok := btn.Property("onSwipe"); !ok {
		t.Error("unknown function station should become a property")
	}
}

type fakeWidget struct {
	elt   *dom.Node
	named map[string]func(*dom.Event)
}

func (w *fakeWidget) Elt() typify.Node { return w.elt }

func (w *fakeWidget) On(name string, fn func(*dom.Event)) bool {
	if name != "mousePressed" {
		return false
	}
	w.named[name] = fn
	return true
}

func TestWidgetMethods(t *testing.T) {
	e, doc, _ := newEngine(t)
	w := &fakeWidget{elt: doc.CreateElement("canvas"), named: map[string]func(*dom.Event){}}
	pressed := false
	e.Set(w.elt, func() { pressed = true }, "mousePressed", w)
	fn, ok := w.named["mousePressed"]
	if !ok {
		t.Fatal("widget did not receive the callback")
	}
	fn(nil)
	if !pressed {
		t.Error("callback not wired")
	}

	e.Set(doc.Body, w, "board")
	if w.elt.Parent() != doc.Body {
		t.Error("widget element should be appended")
	}
}

func TestMarkdownAndHTMLStations(t *testing.T) {
	e, doc, _ := newEngine(t)
	div := doc.CreateElement("div")
	e.Set(div, "# Hi", "md")
	if !strings.Contains(div.InnerHTML(), "<h1>Hi</h1>") {
		t.Errorf("markdown = %q", div.InnerHTML())
	}
	e.Set(div, "<b>x</b>", "innerHTML")
	if div.InnerHTML() != "<b>x</b>" {
		t.Errorf("html = %q", div.InnerHTML())
	}
}

func TestReservedStationsSwallowed(t *testing.T) {
	e, doc, _ := newEngine(t)
	div := doc.CreateElement("div")
	for _, s := range []string{"tag", "id", "bind", "with", "as", "binders", "ready", "done"} {
		if out := e.Set(div, "x", s); out != nil {
			t.Errorf("%s returned %v", s, out)
		}
	}
	if div.OuterHTML() != "<div></div>" {
		t.Errorf("node changed: %s", div.OuterHTML())
	}
}

func TestLifecycle(t *testing.T) {
	e, doc, m := newEngine(t)
	var ready, done, trailing *dom.Node
	fired := false
	ticks := 0
	n := e.Set(doc.Body, model.Object{
		{Key: "text", Value: "x"},
		{Key: "ready", Value: func(n *dom.Node) { ready = n }},
		{Key: "done", Value: func(n *dom.Node) { done = n }},
		{Key: "timeout", Value: model.Object{{Key: "delay", Value: 50}, {Key: "call", Value: func() { fired = true }}}},
		{Key: "interval", Value: model.Object{
			{Key: "every", Value: 100},
			{Key: "call", Value: func(*dom.Node) bool { ticks++; return ticks < 3 }},
		}},
	}, "div", func(n *dom.Node) { trailing = n }).(*dom.Node)

	if ready != n || done != n || trailing != n {
		t.Fatal("callbacks not called with the new node")
	}
	if n.TextContent() != "x" {
		t.Errorf("text = %q", n.TextContent())
	}
	m.Advance(50 * time.Millisecond)
	if !fired {
		t.Error("timeout did not fire")
	}
	m.Advance(time.Second)
	if ticks != 3 {
		t.Errorf("ticks = %d, want 3", ticks)
	}
	if e.Running(n, "interval") {
		t.Error("interval should have stopped")
	}
}

func TestGet(t *testing.T) {
	e, doc, _ := newEngine(t)
	ul := e.Set(doc.Body, model.Object{
		{Key: "li", Value: []any{"a", model.Object{{Key: "span", Value: "b"}}}},
		{Key: "title", Value: "list"},
		{Key: "color", Value: "red"},
	}, "ul").(*dom.Node)

	if got := e.Get("title", ul); got != "list" {
		t.Errorf("attribute = %v", got)
	}
	if got := e.Get("text", ul); got != "ab" {
		t.Errorf("text = %v", got)
	}
	if got, ok := e.Get("li", ul).([]*dom.Node); !ok || len(got) != 2 {
		t.Errorf("children = %#v", got)
	}
	if got, ok := e.Get("span", ul).([]*dom.Node); !ok || len(got) != 1 {
		t.Errorf("descendants = %#v", got)
	}
	if got, ok := e.Get("ul").(*dom.Node); !ok || got != ul {
		t.Errorf("body child = %#v", got)
	}
	if e.Get("nothing", ul) != nil {
		t.Error("missing station should be nil")
	}
}
