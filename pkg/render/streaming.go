package render

import (
	"io"
	"net/http"

	"github.com/jml-dev/jml/pkg/dom"
)

// StreamingRenderer wraps Renderer with chunked output support.
// It flushes content incrementally for faster time-to-first-byte.
type StreamingRenderer struct {
	*Renderer
	flusher http.Flusher
	w       io.Writer
}

// NewStreamingRenderer creates a streaming renderer that writes to w. If
// w implements http.Flusher, the head is flushed before the body is
// rendered.
func NewStreamingRenderer(w io.Writer, config RendererConfig) *StreamingRenderer {
	flusher, _ := w.(http.Flusher)
	return &StreamingRenderer{
		Renderer: NewRenderer(config),
		flusher:  flusher,
		w:        w,
	}
}

// RenderDocument renders doc, flushing after the head and at the end.
func (s *StreamingRenderer) RenderDocument(doc *dom.Document) error {
	sw := &stickyWriter{w: s.w}
	s.openDocument(sw, doc)
	s.renderNode(sw, doc.Head, 0, !s.config.Pretty)
	if sw.err != nil {
		return sw.err
	}
	s.flush()
	s.renderBody(sw, doc.Body)
	s.closeDocument(sw)
	if sw.err != nil {
		return sw.err
	}
	s.flush()
	return nil
}

// flush flushes the writer if it supports flushing.
func (s *StreamingRenderer) flush() {
	if s.flusher != nil {
		s.flusher.Flush()
	}
}

// FlushableWriter wraps an io.Writer with optional flushing capability.
// This is useful for testing streaming behavior without using http.ResponseWriter.
type FlushableWriter struct {
	io.Writer
	FlushCount int
}

// Flush implements http.Flusher.
func (w *FlushableWriter) Flush() {
	w.FlushCount++
}
