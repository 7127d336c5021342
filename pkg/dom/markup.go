package dom

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// InnerHTML serializes the children of n.
func (n *Node) InnerHTML() string {
	var buf bytes.Buffer
	ctx := toHTML(n.shallow())
	for _, c := range n.children {
		h := toHTML(c)
		ctx.AppendChild(h)
	}
	for c := ctx.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return buf.String()
		}
	}
	return buf.String()
}

// OuterHTML serializes n including its own tag.
func (n *Node) OuterHTML() string {
	var buf bytes.Buffer
	if err := html.Render(&buf, toHTML(n)); err != nil {
		return buf.String()
	}
	return buf.String()
}

// SetInnerHTML replaces the children of n with parsed markup.
func (n *Node) SetInnerHTML(markup string) error {
	nodes, err := n.parseFragment(markup)
	if err != nil {
		return err
	}
	n.ClearChildren()
	n.AppendChild(nodes...)
	return nil
}

// AppendHTML parses markup and appends the resulting nodes, the way
// innerHTML += markup does without discarding existing children.
func (n *Node) AppendHTML(markup string) error {
	nodes, err := n.parseFragment(markup)
	if err != nil {
		return err
	}
	n.AppendChild(nodes...)
	return nil
}

func (n *Node) parseFragment(markup string) ([]*Node, error) {
	if n.Kind != KindElement {
		return []*Node{n.newText(markup)}, nil
	}
	if IsRawTextElement(n.Tag) || !strings.ContainsAny(markup, "<&") {
		if markup == "" {
			return nil, nil
		}
		return []*Node{n.newText(markup)}, nil
	}
	ctx := &html.Node{Type: html.ElementNode, Data: n.Tag, DataAtom: atom.Lookup([]byte(n.Tag))}
	parsed, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Node, 0, len(parsed))
	for _, p := range parsed {
		if c := fromHTML(p, n.doc); c != nil {
			out = append(out, c)
		}
	}
	return out, nil
}

// shallow returns an attribute-less copy used as a serialization context.
func (n *Node) shallow() *Node {
	return &Node{Kind: n.Kind, Tag: n.Tag}
}

func toHTML(n *Node) *html.Node {
	switch n.Kind {
	case KindText:
		return &html.Node{Type: html.TextNode, Data: n.Data}
	case KindComment:
		return &html.Node{Type: html.CommentNode, Data: n.Data}
	}
	h := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Tag,
		DataAtom: atom.Lookup([]byte(n.Tag)),
	}
	for _, a := range n.Attributes() {
		h.Attr = append(h.Attr, html.Attribute{Key: a.Key, Val: a.Value})
	}
	for _, c := range n.children {
		h.AppendChild(toHTML(c))
	}
	return h
}

func fromHTML(h *html.Node, doc *Document) *Node {
	switch h.Type {
	case html.TextNode:
		return &Node{Kind: KindText, Data: h.Data, doc: doc}
	case html.CommentNode:
		return &Node{Kind: KindComment, Data: h.Data, doc: doc}
	case html.ElementNode:
		n := &Node{Kind: KindElement, Tag: strings.ToLower(h.Data), doc: doc}
		for _, a := range h.Attr {
			n.SetAttribute(a.Key, a.Val)
		}
		for c := h.FirstChild; c != nil; c = c.NextSibling {
			if child := fromHTML(c, doc); child != nil {
				n.AppendChild(child)
			}
		}
		return n
	}
	return nil
}
