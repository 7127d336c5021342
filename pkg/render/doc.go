// Package render writes dom trees as HTML documents.
//
// The dom package serializes single nodes; render adds what a served or
// built page needs around them:
//
//   - a DOCTYPE and the html element's lang
//   - optional pretty printing for development and static builds
//   - inline scripts injected before </body> (e.g., the dev reload client)
//   - streaming with a flush after the head for faster first paint
//
// # Basic Usage
//
//	r := render.NewRenderer(render.RendererConfig{Pretty: true})
//	html, err := r.RenderToString(doc.Body)
//
// To render a whole document:
//
//	err := r.RenderDocument(w, doc)
//
// # Security
//
// Text is escaped. The contents of script and style elements are written
// raw, as browsers parse them.
package render
