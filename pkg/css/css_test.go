package css

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jml-dev/jml/pkg/model"
)

func selectors(rules []Rule) []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.Selector
	}
	return out
}

func TestSerializeSimpleRule(t *testing.T) {
	got := Serialize("#domid0", model.Object{{Key: "color", Value: "red"}})
	want := "#domid0 {\n  color: red;\n}\n"
	if got != want {
		t.Errorf("Serialize = %q, want %q", got, want)
	}
}

func TestSerializeDashCaseAndNumbers(t *testing.T) {
	got := Serialize("p", model.Object{{Key: "marginBottom", Value: "1em"}, {Key: "zIndex", Value: 3}, {Key: "lineHeight", Value: 1.5}})
	for _, want := range []string{"margin-bottom: 1em;", "z-index: 3;", "line-height: 1.5;"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in %q", want, got)
		}
	}
}

func TestHeadingExpansion(t *testing.T) {
	rules := Rules("", model.Object{{Key: "h", Value: model.Object{{Key: "fontFamily", Value: "serif"}}}})
	if len(rules) != 6 {
		t.Fatalf("got %d rules, want 6", len(rules))
	}
	for i, r := range rules {
		want := "h" + string(rune('1'+i))
		if r.Selector != want {
			t.Errorf("rule %d selector = %q, want %q", i, r.Selector, want)
		}
		if diff := cmp.Diff([]Declaration{{"font-family", "serif"}}, r.Declarations); diff != "" {
			t.Errorf("rule %d declarations (-want +got):\n%s", i, diff)
		}
	}
}

func TestHeadingWithClass(t *testing.T) {
	rules := Rules("h_title", model.Object{{Key: "color", Value: "red"}})
	if len(rules) != 6 || rules[0].Selector != "h1.title" || rules[5].Selector != "h6.title" {
		t.Errorf("selectors = %v", selectors(rules))
	}
}

func TestNestedSelectors(t *testing.T) {
	style := model.Object{
		{Key: "a", Value: model.Object{
			{Key: "color", Value: "skyblue"},
			{Key: "hover", Value: model.Object{{Key: "color", Value: "gold"}}},
			{Key: "before", Value: model.Object{{Key: "content", Value: "'>'"}}},
			{Key: "__active", Value: model.Object{{Key: "fontWeight", Value: "bold"}}},
			{Key: "span", Value: model.Object{{Key: "color", Value: "white"}}},
		}},
		{Key: "ul", Value: model.Object{
			{Key: ">li", Value: model.Object{{Key: "margin", Value: 0}}},
			{Key: "ol_", Value: model.Object{{Key: "padding", Value: 0}}},
		}},
		{Key: "div_card_big", Value: model.Object{{Key: "width", Value: "10em"}}},
		{Key: "li", Value: model.Object{{Key: "nthChild(2n)", Value: model.Object{{Key: "color", Value: "red"}}}}},
	}
	want := []string{
		"a",
		"a:hover",
		"a::before",
		"a.active",
		"a span",
		"ul>li",
		"ul>ol",
		"div.card.big",
		"li:nth-child(2n)",
	}
	if diff := cmp.Diff(want, selectors(Rules("", style))); diff != "" {
		t.Errorf("selectors (-want +got):\n%s", diff)
	}
}

func TestSrcWrapsURL(t *testing.T) {
	got := Serialize("", model.Object{{Key: "fontFace", Value: model.Object{
		{Key: "fontFamily", Value: "Irish"},
		{Key: "src", Value: "IrishGrover.ttf"},
	}}})
	want := "@font-face {\n  font-family: Irish;\n  src: url(IrishGrover.ttf);\n}\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got := Serialize("src", "url(x.ttf)"); got != "src: url(x.ttf);\n" {
		t.Errorf("pre-wrapped src = %q", got)
	}
}

func TestIDAndClassKeys(t *testing.T) {
	rules := Rules("div", model.Object{{Key: "id", Value: "main"}, {Key: "class", Value: "a b"}, {Key: "color", Value: "red"}})
	if len(rules) != 1 || rules[0].Selector != "div#main.a.b" {
		t.Errorf("selectors = %v", selectors(rules))
	}
}

func TestTopLevelTagObject(t *testing.T) {
	rules := Rules("", model.Object{{Key: "tag", Value: "p"}, {Key: "class", Value: "note"}, {Key: "color", Value: "red"}})
	if len(rules) != 1 || rules[0].Selector != "p.note" {
		t.Errorf("selectors = %v", selectors(rules))
	}
}

func TestCommaGroupsDistribute(t *testing.T) {
	rules := Rules("", model.Object{{Key: "blockquote, q", Value: model.Object{
		{Key: "quotes", Value: "none"},
		{Key: "before", Value: model.Object{{Key: "content", Value: `""`}}},
	}}})
	want := []string{"blockquote, q", "blockquote::before, q::before"}
	if diff := cmp.Diff(want, selectors(rules)); diff != "" {
		t.Errorf("selectors (-want +got):\n%s", diff)
	}
}

func TestArraysOfModels(t *testing.T) {
	rules := Rules("p", []any{model.Object{{Key: "color", Value: "red"}}, model.Object{{Key: "margin", Value: 0}}})
	if len(rules) != 2 {
		t.Fatalf("got %d rules", len(rules))
	}
}

func TestSerializeIsDeterministic(t *testing.T) {
	style := map[string]any{
		"body": map[string]any{"margin": 0, "color": "black"},
		"a":    map[string]any{"hover": map[string]any{"color": "gold"}},
	}
	first := Stylesheet(style)
	for i := 0; i < 10; i++ {
		if got := Stylesheet(style); got != first {
			t.Fatalf("iteration %d differs:\n%s\nvs\n%s", i, got, first)
		}
	}
}

func TestResetSheet(t *testing.T) {
	sheet := Stylesheet(Reset)
	for _, want := range []string{"box-sizing: border-box;", "h6 {", "blockquote::before, q::before {"} {
		if !strings.Contains(sheet, want) {
			t.Errorf("reset sheet missing %q", want)
		}
	}
}
