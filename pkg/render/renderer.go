package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/jml-dev/jml/pkg/dom"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables indented output. Block elements open on their own
	// line; inline elements and text stay on one line.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string

	// Lang is written on the html element when the document root has no
	// lang attribute. Defaults to "en".
	Lang string

	// Scripts are inline scripts injected before </body> by RenderDocument.
	Scripts []string
}

// Renderer writes dom nodes as HTML.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	if config.Lang == "" {
		config.Lang = "en"
	}
	return &Renderer{config: config}
}

// RenderToString renders a node to a string.
func (r *Renderer) RenderToString(n *dom.Node) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a node to the given writer.
func (r *Renderer) RenderToWriter(w io.Writer, n *dom.Node) error {
	sw := &stickyWriter{w: w}
	r.renderNode(sw, n, 0, !r.config.Pretty)
	return sw.err
}

// RenderDocument writes a complete document: DOCTYPE, html, head and body,
// with the configured scripts before </body>.
func (r *Renderer) RenderDocument(w io.Writer, doc *dom.Document) error {
	sw := &stickyWriter{w: w}
	r.openDocument(sw, doc)
	r.renderNode(sw, doc.Head, 0, !r.config.Pretty)
	r.renderBody(sw, doc.Body)
	r.closeDocument(sw)
	return sw.err
}

// DocumentString renders a complete document to a string.
func (r *Renderer) DocumentString(doc *dom.Document) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderDocument(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *Renderer) openDocument(w *stickyWriter, doc *dom.Document) {
	w.write("<!DOCTYPE html>")
	r.newline(w)
	w.write("<html")
	hasLang := false
	for _, a := range doc.Root.Attributes() {
		if a.Key == "lang" {
			hasLang = true
		}
		r.writeAttr(w, a)
	}
	if !hasLang {
		r.writeAttr(w, dom.Attr{Key: "lang", Value: r.config.Lang})
	}
	w.write(">")
	r.newline(w)
}

func (r *Renderer) closeDocument(w *stickyWriter) {
	w.write("</html>")
	r.newline(w)
}

// renderBody renders the body element with the configured scripts
// appended to its children.
func (r *Renderer) renderBody(w *stickyWriter, body *dom.Node) {
	w.write("<body")
	for _, a := range body.Attributes() {
		r.writeAttr(w, a)
	}
	w.write(">")
	r.newline(w)
	for _, c := range body.ChildNodes() {
		r.renderNode(w, c, 1, !r.config.Pretty)
	}
	for _, s := range r.config.Scripts {
		r.indent(w, 1)
		w.write("<script>" + s + "</script>")
		r.newline(w)
	}
	w.write("</body>")
	r.newline(w)
}

// renderNode writes n. In compact mode nothing is indented or broken
// across lines.
func (r *Renderer) renderNode(w *stickyWriter, n *dom.Node, depth int, compact bool) {
	if n == nil {
		return
	}
	switch n.Kind {
	case dom.KindText:
		if compact {
			w.write(r.text(n))
			return
		}
		if s := strings.TrimSpace(n.Data); s != "" {
			r.indent(w, depth)
			w.write(r.text(n))
			r.newline(w)
		}
	case dom.KindComment:
		if !compact {
			r.indent(w, depth)
		}
		w.write("<!--" + n.Data + "-->")
		if !compact {
			r.newline(w)
		}
	case dom.KindElement:
		r.renderElement(w, n, depth, compact)
	default:
		w.fail(fmt.Errorf("render: unknown node kind %s", n.Kind))
	}
}

func (r *Renderer) renderElement(w *stickyWriter, n *dom.Node, depth int, compact bool) {
	tag := n.Tag
	block := !compact && r.isBlock(n)
	if !compact {
		r.indent(w, depth)
	}
	w.write("<" + tag)
	for _, a := range n.Attributes() {
		r.writeAttr(w, a)
	}
	w.write(">")
	if dom.IsVoidElement(tag) {
		if !compact {
			r.newline(w)
		}
		return
	}
	if block {
		r.newline(w)
		for _, c := range n.ChildNodes() {
			r.renderNode(w, c, depth+1, false)
		}
		r.indent(w, depth)
	} else {
		for _, c := range n.ChildNodes() {
			r.renderNode(w, c, 0, true)
		}
	}
	w.write("</" + tag + ">")
	if !compact {
		r.newline(w)
	}
}

// isBlock reports whether n opens on its own line in pretty mode: a
// non-inline, non-raw element with element children.
func (r *Renderer) isBlock(n *dom.Node) bool {
	if isInlineElement(n.Tag) || dom.IsRawTextElement(n.Tag) {
		return false
	}
	return len(n.Children()) > 0
}

func (r *Renderer) text(n *dom.Node) string {
	if p := n.Parent(); p != nil && dom.IsRawTextElement(p.Tag) {
		return n.Data
	}
	return escapeHTML(n.Data)
}

func (r *Renderer) writeAttr(w *stickyWriter, a dom.Attr) {
	if isBooleanAttr(a.Key) {
		switch a.Value {
		case "", "true", a.Key:
			w.write(" " + a.Key)
			return
		case "false":
			return
		}
	}
	w.write(" " + a.Key + `="` + escapeAttr(a.Value) + `"`)
}

func (r *Renderer) indent(w *stickyWriter, depth int) {
	if r.config.Pretty {
		w.write(strings.Repeat(r.config.Indent, depth))
	}
}

func (r *Renderer) newline(w *stickyWriter) {
	if r.config.Pretty {
		w.write("\n")
	}
}

// stickyWriter keeps the first write error and skips later writes.
type stickyWriter struct {
	w   io.Writer
	err error
}

func (s *stickyWriter) write(str string) {
	if s.err != nil {
		return
	}
	_, s.err = io.WriteString(s.w, str)
}

func (s *stickyWriter) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}
