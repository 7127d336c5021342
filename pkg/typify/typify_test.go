package typify

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jml-dev/jml/pkg/model"
)

type fakeNode struct{ tag string }

func (n *fakeNode) TagName() string { return n.tag }

type fakeCell struct{ v any }

func (c *fakeCell) Value() any     { return c.v }
func (c *fakeCell) IsBinder() bool { return true }

func TestKindOf(t *testing.T) {
	var nilNode *fakeNode
	tests := []struct {
		name string
		v    any
		want Kind
	}{
		{"nil", nil, KindNil},
		{"string", "a", KindString},
		{"int", 3, KindNumber},
		{"float", 1.5, KindNumber},
		{"uint8", uint8(2), KindNumber},
		{"bool", true, KindBoolean},
		{"func", func() {}, KindFunction},
		{"slice", []any{1}, KindArray},
		{"typed slice", []string{"a"}, KindArray},
		{"object", model.Object{{Key: "a", Value: 1}}, KindObject},
		{"map", map[string]any{"a": 1}, KindObject},
		{"typed map", map[string]int{"a": 1}, KindObject},
		{"node", &fakeNode{tag: "p"}, KindNode},
		{"nil node", nilNode, KindNil},
		{"cell", &fakeCell{}, KindBinder},
		{"bytes", []byte("x"), KindOther},
		{"struct", struct{}{}, KindOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.v); got != tt.want {
				t.Errorf("KindOf(%v) = %s, want %s", tt.v, got, tt.want)
			}
		})
	}
}

func TestClassifyOrderIndependent(t *testing.T) {
	cb := func(*fakeNode) {}
	node := &fakeNode{tag: "div"}
	c := Classify(true, cb, "click", node, 7, "color")

	s, ok := c.FirstString()
	if !ok || s != "click" {
		t.Errorf("FirstString = %q, %v", s, ok)
	}
	if b, ok := c.FirstBool(); !ok || !b {
		t.Errorf("FirstBool = %v, %v", b, ok)
	}
	if n, ok := c.FirstNumber(); !ok || n != 7 {
		t.Errorf("FirstNumber = %v, %v", n, ok)
	}
	if c.FirstNode() != node {
		t.Error("FirstNode mismatch")
	}
	if len(c.Functions) != 1 {
		t.Errorf("Functions = %d", len(c.Functions))
	}
	if diff := cmp.Diff([]string{"click"}, c.Events); diff != "" {
		t.Errorf("Events (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"color"}, c.Styles); diff != "" {
		t.Errorf("Styles (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"color"}, c.Attributes); diff != "" {
		t.Errorf("Attributes (-want +got):\n%s", diff)
	}
	if len(c.Primitives) != 4 {
		t.Errorf("Primitives = %d, want 4", len(c.Primitives))
	}
}

func TestClassifyEmpty(t *testing.T) {
	c := Classify()
	if c.IsPrimitive() || c.FirstNode() != nil || c.FirstFunction() != nil {
		t.Error("empty classification should have no entries")
	}
	if _, ok := c.FirstString(); ok {
		t.Error("no string expected")
	}
}

func TestClassifierInjectedProbe(t *testing.T) {
	c := &Classifier{Probe: func(name string) bool { return name == "glow" }}
	got := c.Classify("glow", "color")
	if diff := cmp.Diff([]string{"glow"}, got.Styles); diff != "" {
		t.Errorf("Styles (-want +got):\n%s", diff)
	}
}

func TestPseudoNames(t *testing.T) {
	c := Classify("hover", "before", "nth-child")
	if diff := cmp.Diff([]string{"hover", "nth-child"}, c.PseudoClasses); diff != "" {
		t.Errorf("PseudoClasses (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"before"}, c.PseudoElements); diff != "" {
		t.Errorf("PseudoElements (-want +got):\n%s", diff)
	}
}

func TestIsStyleName(t *testing.T) {
	for _, name := range []string{"backgroundColor", "background-color", "zIndex", "margin"} {
		if !IsStyleName(name) {
			t.Errorf("IsStyleName(%q) = false", name)
		}
	}
	for _, name := range []string{"", "p", "section", "href"} {
		if IsStyleName(name) {
			t.Errorf("IsStyleName(%q) = true", name)
		}
	}
}

func TestCaseConversion(t *testing.T) {
	if got := Uncamelize("backgroundColor"); got != "background-color" {
		t.Errorf("Uncamelize = %q", got)
	}
	if got := Uncamelize("initialScale", "_"); got != "initial_scale" {
		t.Errorf("Uncamelize sep = %q", got)
	}
	if got := Camelize("background-color"); got != "backgroundColor" {
		t.Errorf("Camelize = %q", got)
	}
	if got := Camelize("Hello world"); got != "helloWorld" {
		t.Errorf("Camelize words = %q", got)
	}
}

func TestTextAndTruthy(t *testing.T) {
	if Text(1.0) != "1" || Text(2.5) != "2.5" || Text(int64(-3)) != "-3" || Text(true) != "true" {
		t.Error("Text formatting mismatch")
	}
	if Truthy(0) || Truthy("") || Truthy(nil) || !Truthy("x") || !Truthy(1) {
		t.Error("Truthy mismatch")
	}
}

func TestDocType(t *testing.T) {
	tests := map[string]string{
		"main.css":   "stylesheet",
		"app.js":     "text/javascript",
		"icon.ico":   "icon",
		"theme.scss": "stylesheet/scss",
		"font.ttf":   "",
	}
	for in, want := range tests {
		if got := DocType(in); got != want {
			t.Errorf("DocType(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHeadStations(t *testing.T) {
	for _, k := range []string{"title", "Charset", "viewport", "contentType", "icon"} {
		if !IsHeadStation(k) {
			t.Errorf("IsHeadStation(%q) = false", k)
		}
	}
	if IsHeadStation("p") {
		t.Error("p is not a head station")
	}
}
