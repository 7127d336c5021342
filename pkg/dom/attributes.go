package dom

import (
	"strings"

	"github.com/jml-dev/jml/pkg/typify"
)

// Attributes returns a copy of the attributes in order. The style
// attribute reflects the inline style object.
func (n *Node) Attributes() []Attr {
	out := make([]Attr, 0, len(n.attrs)+1)
	for _, a := range n.attrs {
		if a.Key == "style" {
			continue
		}
		out = append(out, a)
	}
	if s := n.StyleText(); s != "" {
		out = append(out, Attr{Key: "style", Value: s})
	}
	return out
}

// GetAttribute returns an attribute value.
func (n *Node) GetAttribute(key string) (string, bool) {
	key = strings.ToLower(key)
	if key == "style" {
		s := n.StyleText()
		return s, s != ""
	}
	for _, a := range n.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttribute reports whether the attribute is present.
func (n *Node) HasAttribute(key string) bool {
	_, ok := n.GetAttribute(key)
	return ok
}

// SetAttribute sets an attribute. Setting style replaces the inline style
// object.
func (n *Node) SetAttribute(key, value string) {
	key = strings.ToLower(key)
	if key == "style" {
		n.style = nil
		n.SetStyleText(value)
		return
	}
	for i, a := range n.attrs {
		if a.Key == key {
			n.attrs[i].Value = value
			return
		}
	}
	n.attrs = append(n.attrs, Attr{Key: key, Value: value})
}

// RemoveAttribute deletes an attribute.
func (n *Node) RemoveAttribute(key string) {
	key = strings.ToLower(key)
	if key == "style" {
		n.style = nil
		return
	}
	for i, a := range n.attrs {
		if a.Key == key {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			return
		}
	}
}

// ID returns the id attribute.
func (n *Node) ID() string {
	id, _ := n.GetAttribute("id")
	return id
}

// SetID sets the id attribute.
func (n *Node) SetID(id string) {
	n.SetAttribute("id", id)
}

// ClassList returns the element's classes.
func (n *Node) ClassList() []string {
	c, _ := n.GetAttribute("class")
	return strings.Fields(c)
}

// HasClass reports whether the class is present.
func (n *Node) HasClass(name string) bool {
	for _, c := range n.ClassList() {
		if c == name {
			return true
		}
	}
	return false
}

// AddClass adds classes that are not yet present.
func (n *Node) AddClass(names ...string) {
	list := n.ClassList()
	changed := false
	for _, name := range names {
		for _, f := range strings.Fields(name) {
			if !contains(list, f) {
				list = append(list, f)
				changed = true
			}
		}
	}
	if changed {
		n.SetAttribute("class", strings.Join(list, " "))
	}
}

// RemoveClass removes classes.
func (n *Node) RemoveClass(names ...string) {
	list := n.ClassList()
	out := list[:0]
	for _, c := range list {
		if !contains(names, c) {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		n.RemoveAttribute("class")
		return
	}
	n.SetAttribute("class", strings.Join(out, " "))
}

// ToggleClass adds the class when on is true and removes it otherwise.
func (n *Node) ToggleClass(name string, on bool) {
	if on {
		n.AddClass(name)
	} else {
		n.RemoveClass(name)
	}
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// styleKey normalises a style property name to camelCase.
func styleKey(name string) string {
	if strings.HasPrefix(name, "--") {
		return name
	}
	if strings.Contains(name, "-") {
		return typify.Camelize(name)
	}
	return name
}

// SetStyle assigns an inline style property. An empty value removes it.
func (n *Node) SetStyle(name, value string) {
	key := styleKey(name)
	if value == "" {
		n.RemoveStyle(key)
		return
	}
	for i, s := range n.style {
		if s.Key == key {
			n.style[i].Value = value
			return
		}
	}
	n.style = append(n.style, Attr{Key: key, Value: value})
}

// Style returns an inline style property.
func (n *Node) Style(name string) string {
	key := styleKey(name)
	for _, s := range n.style {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}

// RemoveStyle deletes an inline style property.
func (n *Node) RemoveStyle(name string) {
	key := styleKey(name)
	for i, s := range n.style {
		if s.Key == key {
			n.style = append(n.style[:i], n.style[i+1:]...)
			return
		}
	}
}

// StyleText serializes the inline style object.
func (n *Node) StyleText() string {
	if len(n.style) == 0 {
		return ""
	}
	parts := make([]string, len(n.style))
	for i, s := range n.style {
		prop := s.Key
		if !strings.HasPrefix(prop, "--") {
			prop = typify.Uncamelize(prop)
		}
		parts[i] = prop + ": " + s.Value + ";"
	}
	return strings.Join(parts, " ")
}

// SetStyleText parses "prop: value; ..." declarations into the style object.
func (n *Node) SetStyleText(text string) {
	for _, decl := range strings.Split(text, ";") {
		prop, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.TrimSpace(prop)
		if prop == "" {
			continue
		}
		n.SetStyle(prop, strings.TrimSpace(value))
	}
}

// IsStyle reports whether name is a style property according to the
// owning document's probe.
func (n *Node) IsStyle(name string) bool {
	if n.doc != nil {
		return n.doc.IsStyle(name)
	}
	return typify.IsStyleName(name)
}
