// Package pager is a hash router. The current page key lives in a binder,
// so page content can be bonded straight into the document.
//
//	p := pager.New(e, model.Object{
//		{Key: "home", Value: homeModel},
//		{Key: "about", Value: aboutModel},
//	})
//	e.Set(main, p.Content(), "content")
//
// Navigating to #about-team selects the "about" page; the "-team" suffix is
// restored to the location after RedirectDelay so the browser can scroll to
// the anchor.
package pager

import (
	"log/slog"
	"strings"
	"time"

	"github.com/jml-dev/jml/pkg/clock"
	"github.com/jml-dev/jml/pkg/dom"
	"github.com/jml-dev/jml/pkg/jml"
	"github.com/jml-dev/jml/pkg/model"
	"github.com/jml-dev/jml/pkg/reactive"
)

// RedirectDelay is how long Refresh waits before writing a suffixed hash
// back to the location.
const RedirectDelay = 500 * time.Millisecond

// Pager maps keys to page models and tracks the selected key.
type Pager struct {
	pages  model.Object
	def    string
	key    *reactive.Binder
	doc    *dom.Document
	clock  clock.Clock
	logger *slog.Logger
	linked bool
}

// Option configures a Pager.
type Option func(*Pager)

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pager) { p.logger = l }
}

// WithClock replaces the engine's clock for redirects.
func WithClock(c clock.Clock) Option {
	return func(p *Pager) { p.clock = c }
}

// Unlinked stops the pager from following the document's hash.
func Unlinked() Option {
	return func(p *Pager) { p.linked = false }
}

// New creates a pager over pages (any mapping model; the first key is the
// default page). Unless Unlinked is given, the pager follows hashchange
// events and refreshes from the current location immediately.
func New(e *jml.Engine, pages any, opts ...Option) *Pager {
	p := &Pager{
		doc:    e.Document(),
		logger: e.Logger(),
		linked: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.clock == nil {
		p.clock = e.Clock()
	}
	p.key = e.Binder(nil)
	p.Add(pages)
	if p.linked {
		p.doc.AddEventListener("hashchange", func(*dom.Event) {
			p.Refresh(p.doc.Location.Hash())
		})
		p.Refresh(p.doc.Location.Hash())
	}
	return p
}

// Add registers a page, or every entry of a mapping when content is
// omitted. The first page added becomes the default and the current key.
// Re-adding a key replaces its content.
func (p *Pager) Add(key any, content ...any) {
	k, ok := key.(string)
	if !ok {
		for _, en := range model.Entries(key) {
			p.Add(en.Key, en.Value)
		}
		return
	}
	var v any
	if len(content) > 0 {
		v = content[0]
	}
	if p.def == "" {
		p.def = k
		p.pages = p.pages.Set(k, v)
		p.key.Set(k)
		return
	}
	p.pages = p.pages.Set(k, v)
}

// Refresh selects the page named by hash. The key is the part before the
// first "-"; an empty key selects the default. Unknown keys are ignored.
// When the hash carries a suffix it is written back to the location after
// RedirectDelay. Refresh reports whether the key changed.
func (p *Pager) Refresh(hash string) bool {
	hash = strings.TrimPrefix(hash, "#")
	key, _, _ := strings.Cut(hash, "-")
	if key == "" {
		key = p.def
	}
	if key == p.Key() || !p.HasKey(key) {
		return false
	}
	p.key.Set(key)
	if key != hash && hash != "" {
		p.clock.AfterFunc(RedirectDelay, func() {
			if p.doc.Location.Hash() != "#"+hash {
				p.doc.Location.SetHash(hash)
			}
		})
	}
	return true
}

// Key returns the selected page key.
func (p *Pager) Key() string {
	k, _ := p.key.Value().(string)
	return k
}

// SetKey selects a page. An empty key selects the default; unknown keys
// are logged and ignored.
func (p *Pager) SetKey(key string) {
	if key == "" {
		key = p.def
	}
	if !p.HasKey(key) {
		p.logger.Warn("unknown page", "key", key)
		return
	}
	p.key.Set(key)
}

// Default returns the default page key.
func (p *Pager) Default() string { return p.def }

// Keys returns the page keys in insertion order.
func (p *Pager) Keys() []string { return p.pages.Keys() }

// Entries returns the pages in insertion order.
func (p *Pager) Entries() model.Object { return p.pages.Clone() }

// HasKey reports whether a page is registered under key.
func (p *Pager) HasKey(key string) bool { return p.pages.Has(key) }

// Page returns the model registered under key.
func (p *Pager) Page(key string) any {
	v, _ := p.pages.Get(key)
	return v
}

// Binder returns the binder holding the selected key.
func (p *Pager) Binder() *reactive.Binder { return p.key }

// Content returns a descriptor yielding the selected page's model.
func (p *Pager) Content() *reactive.Bind {
	return p.Map(nil)
}

// Map returns a descriptor yielding fn applied to the selected page's
// model. A nil fn yields the model itself.
func (p *Pager) Map(fn func(page any) any) *reactive.Bind {
	return p.key.As(func(k any) any {
		key, _ := k.(string)
		page := p.Page(key)
		if fn == nil {
			return page
		}
		return fn(page)
	})
}
