package server

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/jml-dev/jml/pkg/clock"
	"github.com/jml-dev/jml/pkg/dom"
	"github.com/jml-dev/jml/pkg/jml"
	"github.com/jml-dev/jml/pkg/page"
	"github.com/jml-dev/jml/pkg/render"
)

// ComposeOptions configures a single page composition.
type ComposeOptions struct {
	// Language is the navigator language seen by the page (e.g., "es-ES").
	Language string

	// Search is the query string, with or without "?".
	Search string

	// Now starts the manual clock. Default: time.Now().
	Now time.Time

	// Logger receives engine diagnostics. Default: slog.Default().
	Logger *slog.Logger
}

// Compose builds a fresh document for p. Timers due within the reveal
// delay are run, up to the manual clock's callback limit, and the body is
// left visible. A panic during construction
// is returned as a *PanicError.
func Compose(p *page.Page, opts ComposeOptions) (doc *dom.Document, err error) {
	if p == nil || p.Model == nil {
		return nil, fmt.Errorf("compose: empty page")
	}
	defer func() {
		if v := recover(); v != nil {
			doc = nil
			err = &PanicError{Page: p.Name, Value: v, Stack: debug.Stack()}
		}
	}()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	var docOpts []dom.Option
	if opts.Language != "" {
		docOpts = append(docOpts, dom.WithLanguage(opts.Language))
	}
	doc = dom.NewDocument(docOpts...)
	doc.Location.SetSearch(opts.Search)

	clk := clock.NewManual(now)
	e := jml.New(doc, jml.WithClock(clk), jml.WithLogger(logger.With("page", p.Name)))
	e.Apply(p.Model)
	if err := clk.Advance(jml.RevealDelay); err != nil {
		logger.Warn("page timers stopped", "page", p.Name, "error", err)
	}
	if doc.Body.Style("visibility") == "hidden" {
		e.Let("visibility", "visible", doc.Body)
	}
	return doc, nil
}

// RenderOptions configures RenderPage.
type RenderOptions struct {
	ComposeOptions
	render.RendererConfig

	// Prepare, when set, runs on the composed document before rendering.
	Prepare func(doc *dom.Document)
}

// RenderPage loads name from store and renders it as a complete document.
// Errors wrap page.ErrNotFound when the page does not exist.
func RenderPage(ctx context.Context, store page.Store, name string, opts RenderOptions) ([]byte, error) {
	p, err := store.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	doc, err := Compose(p, opts.ComposeOptions)
	if err != nil {
		return nil, err
	}
	if opts.Prepare != nil {
		opts.Prepare(doc)
	}
	out, err := render.NewRenderer(opts.RendererConfig).DocumentString(doc)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return []byte(out), nil
}
