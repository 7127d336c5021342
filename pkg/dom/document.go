package dom

import (
	"strings"

	"github.com/jml-dev/jml/pkg/typify"
)

// Location is the document's address: the hash drives routers and the
// search string drives query-string parsing.
type Location struct {
	doc    *Document
	hash   string
	search string
}

// Hash returns the hash including the leading "#", or "".
func (l *Location) Hash() string { return l.hash }

// Search returns the query string including the leading "?", or "".
func (l *Location) Search() string { return l.search }

// SetSearch replaces the query string.
func (l *Location) SetSearch(s string) {
	if s != "" && !strings.HasPrefix(s, "?") {
		s = "?" + s
	}
	l.search = s
}

// SetHash navigates to a new hash and fires hashchange on the window when
// it changed.
func (l *Location) SetHash(h string) {
	if h != "" && !strings.HasPrefix(h, "#") {
		h = "#" + h
	}
	if h == "#" {
		h = ""
	}
	if h == l.hash {
		return
	}
	l.hash = h
	if l.doc != nil {
		l.doc.window.dispatch(&Event{Type: "hashchange", Detail: h})
	}
}

// Storage is a string key/value store standing in for localStorage.
type Storage struct {
	items map[string]string
}

// GetItem returns a stored value.
func (s *Storage) GetItem(key string) (string, bool) {
	v, ok := s.items[key]
	return v, ok
}

// SetItem stores a value.
func (s *Storage) SetItem(key, value string) {
	if s.items == nil {
		s.items = make(map[string]string)
	}
	s.items[key] = value
}

// RemoveItem deletes a value.
func (s *Storage) RemoveItem(key string) {
	delete(s.items, key)
}

// Document owns a tree rooted at <html> with <head> and <body>.
type Document struct {
	Root *Node
	Head *Node
	Body *Node

	// Registry records id assignments made through the engine.
	Registry *Registry

	// Location holds hash and search.
	Location *Location

	// Storage stands in for localStorage.
	Storage *Storage

	// Language is the navigator language (e.g., "en-US").
	Language string

	// StyleProbe decides which names are style properties.
	// Defaults to typify.IsStyleName.
	StyleProbe typify.StyleProbe

	window  eventTarget
	ready   bool
	pending []func()
}

// Option configures a Document.
type Option func(*Document)

// Loading creates the document in the not-yet-loaded state. Work queued with
// OnLoad runs when Load is called.
func Loading() Option {
	return func(d *Document) { d.ready = false }
}

// WithLanguage sets the navigator language.
func WithLanguage(lang string) Option {
	return func(d *Document) { d.Language = lang }
}

// WithStyleProbe replaces the style property probe.
func WithStyleProbe(p typify.StyleProbe) Option {
	return func(d *Document) { d.StyleProbe = p }
}

// WithRegistry shares a registry across documents.
func WithRegistry(r *Registry) Option {
	return func(d *Document) { d.Registry = r }
}

// NewDocument creates an empty, loaded document.
func NewDocument(opts ...Option) *Document {
	d := &Document{
		Registry: NewRegistry(),
		Storage:  &Storage{},
		Language: "en",
		ready:    true,
	}
	d.Location = &Location{doc: d}
	d.Root = d.CreateElement("html")
	d.Head = d.CreateElement("head")
	d.Body = d.CreateElement("body")
	d.Root.AppendChild(d.Head, d.Body)
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// CreateElement creates a detached element owned by d.
func (d *Document) CreateElement(tag string) *Node {
	return &Node{Kind: KindElement, Tag: strings.ToLower(tag), doc: d}
}

// CreateTextNode creates a detached text node owned by d.
func (d *Document) CreateTextNode(text string) *Node {
	return &Node{Kind: KindText, Data: text, doc: d}
}

// IsStyle reports whether name is a style property.
func (d *Document) IsStyle(name string) bool {
	if d.StyleProbe != nil {
		return d.StyleProbe(name)
	}
	return typify.IsStyleName(name)
}

// Ready reports whether the document has loaded.
func (d *Document) Ready() bool { return d.ready }

// OnLoad runs fn now if the document is ready, otherwise after Load.
func (d *Document) OnLoad(fn func()) {
	if d.ready {
		fn()
		return
	}
	d.pending = append(d.pending, fn)
}

// Load marks the document loaded, runs queued work and fires load.
func (d *Document) Load() {
	if d.ready {
		return
	}
	d.ready = true
	pending := d.pending
	d.pending = nil
	for _, fn := range pending {
		fn()
	}
	d.window.dispatch(&Event{Type: "load"})
}

// AddEventListener registers a window-level listener (hashchange, load).
func (d *Document) AddEventListener(typ string, fn Listener) int {
	return d.window.add(typ, fn, ListenerOptions{})
}

// RemoveEventListener removes a window-level listener.
func (d *Document) RemoveEventListener(typ string, id int) {
	d.window.remove(typ, id)
}

// GetElementByID returns the first element in the tree with the id.
func (d *Document) GetElementByID(id string) *Node {
	var found *Node
	d.Root.walk(func(n *Node) {
		if found == nil && n.Kind == KindElement && n.ID() == id {
			found = n
		}
	})
	return found
}

// QuerySelectorAll queries the whole document.
func (d *Document) QuerySelectorAll(selector string) []*Node {
	return d.Root.QuerySelectorAll(selector)
}

// QuerySelector returns the first match in the whole document.
func (d *Document) QuerySelector(selector string) *Node {
	return d.Root.QuerySelector(selector)
}

// Serialize renders the document with a doctype.
func (d *Document) Serialize() string {
	return "<!DOCTYPE html>" + d.Root.OuterHTML()
}
