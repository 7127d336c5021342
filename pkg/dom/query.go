package dom

import "strings"

// A small selector engine covering what models query with: tag, *, #id,
// .class, [attr], [attr=value], :scope, descendant and child combinators,
// and comma-separated groups.

type attrSel struct {
	key   string
	value string
	has   bool // value comparison requested
}

type compound struct {
	tag     string
	scope   bool
	ids     []string
	classes []string
	attrs   []attrSel
}

type complexSel struct {
	parts []compound
	combs []byte // combs[i] joins parts[i] and parts[i+1]: ' ' or '>'
}

func (c compound) match(n *Node, scope *Node) bool {
	if n.Kind != KindElement {
		return false
	}
	if c.scope && n != scope {
		return false
	}
	if c.tag != "" && c.tag != "*" && c.tag != n.Tag {
		return false
	}
	for _, id := range c.ids {
		if n.ID() != id {
			return false
		}
	}
	for _, cls := range c.classes {
		if !n.HasClass(cls) {
			return false
		}
	}
	for _, a := range c.attrs {
		v, ok := n.GetAttribute(a.key)
		if !ok || (a.has && v != a.value) {
			return false
		}
	}
	return true
}

func (s complexSel) matchAt(n *Node, i int, scope *Node) bool {
	if !s.parts[i].match(n, scope) {
		return false
	}
	if i == 0 {
		return true
	}
	if s.combs[i-1] == '>' {
		return n.parent != nil && s.matchAt(n.parent, i-1, scope)
	}
	for p := n.parent; p != nil; p = p.parent {
		if s.matchAt(p, i-1, scope) {
			return true
		}
	}
	return false
}

func (s complexSel) matches(n *Node, scope *Node) bool {
	if len(s.parts) == 0 {
		return false
	}
	return s.matchAt(n, len(s.parts)-1, scope)
}

// parseSelector parses a selector list. Unparseable groups are dropped.
func parseSelector(selector string) []complexSel {
	var out []complexSel
	for _, group := range splitTopLevel(selector) {
		if s, ok := parseComplex(strings.TrimSpace(group)); ok {
			out = append(out, s)
		}
	}
	return out
}

func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == '[' || ch == '(':
			depth++
		case ch == ']' || ch == ')':
			depth--
		case ch == ',' && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

func parseComplex(s string) (complexSel, bool) {
	var sel complexSel
	i := 0
	pending := byte(0)
	for i < len(s) {
		ch := s[i]
		if ch == ' ' || ch == '\t' || ch == '\n' {
			if len(sel.parts) > 0 && pending == 0 {
				pending = ' '
			}
			i++
			continue
		}
		if ch == '>' {
			pending = '>'
			i++
			continue
		}
		c, next, ok := parseCompound(s, i)
		if !ok {
			return sel, false
		}
		if len(sel.parts) > 0 {
			if pending == 0 {
				pending = ' '
			}
			sel.combs = append(sel.combs, pending)
		}
		sel.parts = append(sel.parts, c)
		pending = 0
		i = next
	}
	return sel, len(sel.parts) > 0 && pending == 0
}

func isIdentChar(ch byte) bool {
	return ch == '-' || ch == '_' || ch == '*' ||
		(ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch >= 0x80
}

func readIdent(s string, i int) (string, int) {
	start := i
	for i < len(s) && isIdentChar(s[i]) {
		i++
	}
	return s[start:i], i
}

func parseCompound(s string, i int) (compound, int, bool) {
	var c compound
	if i < len(s) && isIdentChar(s[i]) {
		var tag string
		tag, i = readIdent(s, i)
		c.tag = strings.ToLower(tag)
	}
	for i < len(s) {
		switch s[i] {
		case '#':
			var id string
			id, i = readIdent(s, i+1)
			if id == "" {
				return c, i, false
			}
			c.ids = append(c.ids, id)
		case '.':
			var cls string
			cls, i = readIdent(s, i+1)
			if cls == "" {
				return c, i, false
			}
			c.classes = append(c.classes, cls)
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return c, i, false
			}
			body := s[i+1 : i+end]
			i += end + 1
			key, value, has := strings.Cut(body, "=")
			value = strings.Trim(strings.TrimSpace(value), `"'`)
			c.attrs = append(c.attrs, attrSel{key: strings.ToLower(strings.TrimSpace(key)), value: value, has: has})
		case ':':
			var pseudo string
			pseudo, i = readIdent(s, i+1)
			if pseudo != "scope" {
				return c, i, false
			}
			c.scope = true
		default:
			return c, i, true
		}
	}
	return c, i, true
}

// QuerySelectorAll returns descendants of n matching selector in document
// order. A leading :scope refers to n itself.
func (n *Node) QuerySelectorAll(selector string) []*Node {
	sels := parseSelector(selector)
	if len(sels) == 0 {
		return nil
	}
	var out []*Node
	n.walk(func(d *Node) {
		for _, s := range sels {
			if s.matches(d, n) {
				out = append(out, d)
				return
			}
		}
	})
	return out
}

// QuerySelector returns the first descendant matching selector.
func (n *Node) QuerySelector(selector string) *Node {
	all := n.QuerySelectorAll(selector)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

// walk visits descendants depth-first in document order.
func (n *Node) walk(fn func(*Node)) {
	for _, c := range n.children {
		fn(c)
		c.walk(fn)
	}
}
