// Package copytext serves keyed, language-variant copy.
//
// A copy map holds, per key, either a plain string, a mapping from
// language code to text, or a sequence of either:
//
//	model.Object{
//		{Key: "title", Value: "jml"},
//		{Key: "hello", Value: model.Object{{Key: "en", Value: "Hello"}, {Key: "es", Value: "Hola"}}},
//		{Key: "steps", Value: []any{
//			model.Object{{Key: "en", Value: "First"}, {Key: "es", Value: "Primero"}},
//			model.Object{{Key: "en", Value: "Then"}, {Key: "es", Value: "Luego"}},
//		}},
//	}
package copytext

import (
	"log/slog"
	"strings"

	"github.com/jml-dev/jml/pkg/dom"
	"github.com/jml-dev/jml/pkg/jml"
	"github.com/jml-dev/jml/pkg/model"
	"github.com/jml-dev/jml/pkg/typify"
)

// StorageKey is the storage item holding the chosen language.
const StorageKey = "copy-lang"

// DefaultLang is used when neither storage nor the document name one.
const DefaultLang = "en"

// Language is a selectable copy language.
type Language struct {
	Code string
	Name string
}

// Languages lists the languages offered by ToggleLinks by default.
var Languages = []Language{
	{Code: "es", Name: "Español"},
	{Code: "en", Name: "English"},
}

// Copy looks up copy by key for the current language.
type Copy struct {
	entries model.Object
	keys    map[string]string
	counter map[string]int
	key     string
	lang    string

	doc    *dom.Document
	reload func()
	logger *slog.Logger
}

// Option configures a Copy.
type Option func(*Copy)

// WithDocument reads and persists the language through doc's storage,
// falling back to the document language.
func WithDocument(doc *dom.Document) Option {
	return func(c *Copy) { c.doc = doc }
}

// WithLang fixes the language, ignoring storage.
func WithLang(lang string) Option {
	return func(c *Copy) { c.lang = lang }
}

// WithReload sets the hook SetLang calls after persisting a new language.
func WithReload(fn func()) Option {
	return func(c *Copy) { c.reload = fn }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Copy) { c.logger = l }
}

// New creates a copy over m, which may be nil.
func New(m any, opts ...Option) *Copy {
	c := &Copy{
		keys:    make(map[string]string),
		counter: make(map[string]int),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.entries = model.ToObject(m).Clone()
	if len(c.entries) > 0 {
		c.key = c.entries[0].Key
	}
	for _, en := range c.entries {
		c.keys[en.Key] = en.Key
	}
	if c.lang == "" {
		c.lang = c.detectLang()
	}
	return c
}

// detectLang prefers the stored language, then the document language,
// then DefaultLang.
func (c *Copy) detectLang() string {
	if c.doc == nil {
		return DefaultLang
	}
	if v, ok := c.doc.Storage.GetItem(StorageKey); ok && v != "" {
		return v
	}
	if lang, _, _ := strings.Cut(c.doc.Language, "-"); lang != "" {
		return lang
	}
	return DefaultLang
}

// Lang returns the current language code.
func (c *Copy) Lang() string { return c.lang }

// SetLang switches language, persists it and calls the reload hook.
func (c *Copy) SetLang(lang string) {
	c.lang = lang
	if c.doc != nil {
		c.doc.Storage.SetItem(StorageKey, lang)
	}
	if c.reload != nil {
		c.reload()
	}
}

// Add registers copy under key, or every entry of a mapping when val is
// omitted. An existing key is logged and left unchanged. Add returns the
// registered copy for the current language.
func (c *Copy) Add(key any, val ...any) string {
	k, ok := key.(string)
	if !ok {
		for _, en := range model.Entries(key) {
			c.Add(en.Key, en.Value)
		}
		return ""
	}
	if c.entries.Has(k) {
		c.logger.Warn("copy key already exists", "key", k)
		return ""
	}
	var v any
	if len(val) > 0 {
		v = val[0]
	}
	c.entries = append(c.entries, model.Entry{Key: k, Value: v})
	c.keys[k] = k
	return c.Get(k)
}

// Get returns the copy under key for the current language. For sequence
// copy, i selects the item (default 0) and becomes the position Next
// continues from. A missing language falls back to the first variant; a
// missing key or item yields "".
func (c *Copy) Get(key string, i ...int) string {
	val, ok := c.entries.Get(key)
	if !ok || val == nil {
		c.logger.Warn("copy key not found", "key", key)
		return ""
	}
	c.key = key
	items, isSeq := model.Items(val)
	if !isSeq {
		return c.variant(key, val)
	}
	idx := 0
	if len(i) > 0 {
		idx = i[0]
	}
	if idx < 0 || idx >= len(items) || items[idx] == nil {
		return ""
	}
	c.counter[key] = idx
	return c.variant(key, items[idx])
}

func (c *Copy) variant(key string, val any) string {
	if !model.IsMapping(val) {
		return Treat(typify.Text(val))
	}
	if v, ok := model.Lookup(val, c.lang); ok && v != nil {
		return Treat(typify.Text(v))
	}
	c.logger.Warn("copy language not found", "key", key, "lang", c.lang)
	entries := model.Entries(val)
	if len(entries) == 0 {
		return ""
	}
	return Treat(typify.Text(entries[0].Value))
}

// Next returns the item after the last one read from the current key.
func (c *Copy) Next() string {
	i, ok := c.counter[c.key]
	if ok {
		i++
	}
	return c.Get(c.key, i)
}

// Text returns the current language's entry of a language mapping, or ""
// when it has none.
func (c *Copy) Text(m any) string {
	v, ok := model.Lookup(m, c.lang)
	if !ok {
		return ""
	}
	return typify.Text(v)
}

// Key returns the registered key named name, or "" when there is none.
func (c *Copy) Key(name string) string { return c.keys[name] }

// Keys returns the registered copy keys in insertion order.
func (c *Copy) Keys() []string { return c.entries.Keys() }

// AddKey registers extra key names. Existing names are logged and skipped.
func (c *Copy) AddKey(keys ...string) {
	for _, k := range keys {
		if _, ok := c.keys[k]; ok {
			c.logger.Warn("copy key name already exists", "key", k)
			continue
		}
		c.keys[k] = k
	}
}

// ToggleLinks returns one model per language: a link showing the
// language name, hidden for the current language, that switches to it
// when clicked. With no arguments Languages is used.
func (c *Copy) ToggleLinks(langs ...Language) []any {
	if len(langs) == 0 {
		langs = Languages
	}
	out := make([]any, len(langs))
	for i, l := range langs {
		display := "block"
		if l.Code == c.lang {
			display = "none"
		}
		code := l.Code
		out[i] = model.Object{
			{Key: "display", Value: display},
			{Key: "text", Value: l.Name},
			{Key: "click", Value: func() { c.SetLang(code) }},
		}
	}
	return out
}

// MarkDocument sets the lang attribute of the document root.
func (c *Copy) MarkDocument(e *jml.Engine) {
	e.Set(e.Document().Root, c.lang, "lang")
}

// Treat replaces em-dashes with styled markup.
func Treat(s string) string {
	return strings.ReplaceAll(s, "—", `<em class="em-dash">--</em>`)
}
