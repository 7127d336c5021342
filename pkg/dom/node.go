package dom

import "strings"

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement Kind = iota // <div>, <p>, etc.
	KindText                // Plain text node
	KindComment             // <!-- comment -->
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComment:
		return "Comment"
	default:
		return "Unknown"
	}
}

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value string
}

// Node is a live tree node.
type Node struct {
	Kind Kind
	Tag  string // lower-case element tag
	Data string // text for KindText and KindComment

	attrs    []Attr
	style    []Attr // camelCase property -> value, in assignment order
	props    map[string]any
	events   eventTarget
	parent   *Node
	children []*Node
	doc      *Document
}

// TagName returns the lower-case tag name, or "" for non-elements.
func (n *Node) TagName() string {
	if n == nil || n.Kind != KindElement {
		return ""
	}
	return n.Tag
}

// Is reports whether n is an element with the given tag.
func (n *Node) Is(tag string) bool {
	return n != nil && n.Kind == KindElement && n.Tag == strings.ToLower(tag)
}

// Document returns the owning document.
func (n *Node) Document() *Document { return n.doc }

// Parent returns the parent node, or nil when detached.
func (n *Node) Parent() *Node { return n.parent }

// ChildNodes returns all children, including text nodes.
func (n *Node) ChildNodes() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Children returns the element children.
func (n *Node) Children() []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.Kind == KindElement {
			out = append(out, c)
		}
	}
	return out
}

// FirstChild returns the first child node.
func (n *Node) FirstChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// AppendChild appends nodes, detaching them from any previous parent.
func (n *Node) AppendChild(children ...*Node) {
	for _, c := range children {
		if c == nil || c == n || c.Contains(n) {
			continue
		}
		c.Remove()
		c.parent = n
		c.adopt(n.doc)
		n.children = append(n.children, c)
	}
}

// Prepend inserts nodes before the first child, keeping their order.
func (n *Node) Prepend(children ...*Node) {
	var add []*Node
	for _, c := range children {
		if c == nil || c == n || c.Contains(n) {
			continue
		}
		c.Remove()
		c.parent = n
		c.adopt(n.doc)
		add = append(add, c)
	}
	n.children = append(add, n.children...)
}

// InsertBefore inserts c before ref. A nil or foreign ref appends.
func (n *Node) InsertBefore(c, ref *Node) {
	if ref == nil || ref.parent != n {
		n.AppendChild(c)
		return
	}
	if c == nil || c == n || c.Contains(n) {
		return
	}
	c.Remove()
	c.parent = n
	c.adopt(n.doc)
	for i, existing := range n.children {
		if existing == ref {
			n.children = append(n.children[:i], append([]*Node{c}, n.children[i:]...)...)
			return
		}
	}
}

// RemoveChild detaches c if it is a child of n.
func (n *Node) RemoveChild(c *Node) {
	for i, existing := range n.children {
		if existing == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			c.parent = nil
			return
		}
	}
}

// Remove detaches n from its parent.
func (n *Node) Remove() {
	if n.parent != nil {
		n.parent.RemoveChild(n)
	}
}

// ClearChildren removes every child.
func (n *Node) ClearChildren() {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
}

func (n *Node) adopt(doc *Document) {
	if doc == nil || n.doc == doc {
		return
	}
	n.doc = doc
	for _, c := range n.children {
		c.adopt(doc)
	}
}

// TextContent returns the concatenated text of all descendants.
func (n *Node) TextContent() string {
	if n.Kind != KindElement {
		return n.Data
	}
	var b strings.Builder
	n.walkText(&b)
	return b.String()
}

func (n *Node) walkText(b *strings.Builder) {
	for _, c := range n.children {
		switch c.Kind {
		case KindText:
			b.WriteString(c.Data)
		case KindElement:
			c.walkText(b)
		}
	}
}

// SetTextContent replaces all children with a single text node.
func (n *Node) SetTextContent(s string) {
	if n.Kind != KindElement {
		n.Data = s
		return
	}
	n.ClearChildren()
	if s != "" {
		n.AppendChild(n.newText(s))
	}
}

// AppendText appends a text node.
func (n *Node) AppendText(s string) {
	n.AppendChild(n.newText(s))
}

func (n *Node) newText(s string) *Node {
	return &Node{Kind: KindText, Data: s, doc: n.doc}
}

// Value returns the form value of the element.
func (n *Node) Value() string {
	switch n.Tag {
	case "textarea":
		return n.TextContent()
	case "input", "option", "button", "data", "param", "li", "meter", "progress":
		v, _ := n.GetAttribute("value")
		return v
	}
	if v, ok := n.Property("value"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// SetValue sets the form value of the element.
func (n *Node) SetValue(v string) {
	switch n.Tag {
	case "textarea":
		n.SetTextContent(v)
	case "input", "option", "button", "data", "param", "li", "meter", "progress":
		n.SetAttribute("value", v)
	default:
		n.SetProperty("value", v)
	}
}

// SetProperty assigns a free-form property.
func (n *Node) SetProperty(name string, v any) {
	if n.props == nil {
		n.props = make(map[string]any)
	}
	n.props[name] = v
}

// Property returns a free-form property.
func (n *Node) Property(name string) (any, bool) {
	v, ok := n.props[name]
	return v, ok
}

// CloneNode copies the node; deep also copies descendants. Listeners and
// properties are not copied.
func (n *Node) CloneNode(deep bool) *Node {
	c := &Node{
		Kind:  n.Kind,
		Tag:   n.Tag,
		Data:  n.Data,
		attrs: append([]Attr(nil), n.attrs...),
		style: append([]Attr(nil), n.style...),
		doc:   n.doc,
	}
	if deep {
		for _, child := range n.children {
			c.AppendChild(child.CloneNode(true))
		}
	}
	return c
}
