package css

import (
	"strconv"
	"strings"

	"github.com/jml-dev/jml/pkg/model"
	"github.com/jml-dev/jml/pkg/typify"
)

// Declaration is one property: value pair.
type Declaration struct {
	Property string
	Value    string
}

// String renders the declaration.
func (d Declaration) String() string {
	return d.Property + ": " + d.Value + ";"
}

// Rule is a flat selector with its declarations.
type Rule struct {
	Selector     string
	Declarations []Declaration
}

// String renders the rule as stylesheet text.
func (r Rule) String() string {
	var b strings.Builder
	b.WriteString(r.Selector)
	b.WriteString(" {\n")
	for _, d := range r.Declarations {
		b.WriteString("  ")
		b.WriteString(d.String())
		b.WriteByte('\n')
	}
	b.WriteString("}\n")
	return b.String()
}

// Format renders rules in order.
func Format(rules []Rule) string {
	var b strings.Builder
	for _, r := range rules {
		b.WriteString(r.String())
	}
	return b.String()
}

// Serialize converts a style model under selector into stylesheet text.
// An empty selector treats the model as a whole stylesheet. A primitive
// model renders as a single declaration.
func Serialize(selector string, style any) string {
	if selector != "" && typify.IsPrimitive(style) {
		return declaration(selector, style).String() + "\n"
	}
	return Format(Rules(selector, style))
}

// Stylesheet converts a top-level style model (selector -> rules).
func Stylesheet(style any) string {
	return Serialize("", style)
}

// Rules flattens a style model into rules.
func Rules(selector string, style any) []Rule {
	var out []Rule
	if selector == "" {
		collectSheet(style, &out)
		return out
	}
	collect(selector, style, &out)
	return out
}

func collectSheet(style any, out *[]Rule) {
	if items, ok := model.Items(style); ok {
		merged := model.Object{}
		for _, item := range items {
			for _, e := range model.Entries(item) {
				merged = merged.Set(e.Key, e.Value)
			}
		}
		style = merged
	}
	obj := model.ToObject(style)
	if obj.Has("tag") || obj.Has("id") || obj.Has("class") {
		tag, _ := obj.Get("tag")
		collect(typify.Text(tag), obj.Without("tag"), out)
		return
	}
	for _, e := range obj {
		collect(e.Key, e.Value, out)
	}
}

func collect(selector string, style any, out *[]Rule) {
	if style == nil {
		return
	}
	parts := strings.Split(selector, "_")
	sel := parts[0]
	var cls []string
	for _, p := range parts[1:] {
		if p != "" {
			cls = append(cls, p)
		}
	}

	if sel == "h" && !typify.IsPrimitive(style) {
		suffix := ""
		if len(cls) > 0 {
			suffix = "." + strings.Join(cls, ".")
		}
		for i := 1; i <= 6; i++ {
			collect("h"+strconv.Itoa(i)+suffix, style, out)
		}
		return
	}
	if strings.ToLower(sel) == "fontface" {
		sel = "@font-face"
	}

	if items, ok := model.Items(style); ok {
		for _, item := range items {
			collect(selector, item, out)
		}
		return
	}

	if !model.IsMapping(style) {
		return
	}
	if c, ok := model.Lookup(style, "class"); ok {
		cls = append(cls, strings.Fields(typify.Text(c))...)
	}
	if id, ok := model.Lookup(style, "id"); ok && typify.Text(id) != "" {
		sel += "#" + typify.Text(id)
	}
	if len(cls) > 0 {
		sel += "." + strings.Join(cls, ".")
	}

	rule := Rule{Selector: sel}
	var nested []func()
	for _, e := range model.Entries(style) {
		key, value := e.Key, e.Value
		if key == "class" || key == "id" || value == nil {
			continue
		}
		if typify.IsPrimitive(value) {
			rule.Declarations = append(rule.Declarations, declaration(key, value))
			continue
		}
		child := childSelector(sel, key)
		nested = append(nested, func() { collect(child, value, out) })
	}
	if len(rule.Declarations) > 0 {
		*out = append(*out, rule)
	}
	for _, fn := range nested {
		fn()
	}
}

// childSelector composes a nested key onto its parent selector.
func childSelector(parent, key string) string {
	name, args := key, ""
	if i := strings.Index(key, "("); i >= 0 {
		name, args = key[:i], key[i:]
	}
	sub := typify.Uncamelize(name)
	switch {
	case typify.IsPseudoClass(sub):
		return eachPart(parent, func(p string) string { return p + ":" + sub + args })
	case typify.IsPseudoElement(sub):
		return eachPart(parent, func(p string) string { return p + "::" + sub + args })
	case strings.HasPrefix(key, "__"):
		return eachPart(parent, func(p string) string { return p + sub[1:] + args })
	case strings.HasPrefix(key, ">"):
		return eachPart(parent, func(p string) string { return p + ">" + strings.TrimSpace(sub[1:]) + args })
	case strings.HasSuffix(key, "_"):
		return eachPart(parent, func(p string) string { return p + ">" + strings.TrimSuffix(sub, "_") })
	}
	return eachPart(parent, func(p string) string { return p + " " + key })
}

// eachPart applies fn to every comma-separated group of a selector.
func eachPart(selector string, fn func(string) string) string {
	if !strings.Contains(selector, ",") {
		return fn(selector)
	}
	parts := strings.Split(selector, ",")
	for i, p := range parts {
		parts[i] = fn(strings.TrimSpace(p))
	}
	return strings.Join(parts, ", ")
}

func declaration(key string, value any) Declaration {
	prop := strings.Split(key, "_")[0]
	v := typify.Text(value)
	if prop == "src" && !strings.HasPrefix(v, "url") {
		v = "url(" + v + ")"
	}
	return Declaration{Property: typify.Uncamelize(prop), Value: v}
}
