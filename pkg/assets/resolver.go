package assets

import (
	"strings"

	"github.com/jml-dev/jml/pkg/dom"
)

// Resolver provides asset path resolution.
// It combines manifest lookup with path prefixing.
type Resolver interface {
	// Asset resolves a source asset path to its full URL path.
	//
	// Example:
	//   resolver.Asset("css/site.css") → "/static/css/site.e5f6a7b8.css"
	Asset(source string) string
}

// manifestResolver wraps a Manifest to implement Resolver.
type manifestResolver struct {
	manifest *Manifest
	prefix   string
}

// NewResolver creates a Resolver from a Manifest with an optional path
// prefix prepended to every resolved path.
func NewResolver(m *Manifest, prefix string) Resolver {
	return &manifestResolver{
		manifest: m,
		prefix:   prefix,
	}
}

func (r *manifestResolver) Asset(source string) string {
	resolved := r.manifest.Resolve(source)
	return r.prefix + resolved
}

// linkAttributes hold asset URLs.
var linkAttributes = []string{"src", "href", "poster"}

// Rewrite replaces src, href and poster values that start with mount and
// name a manifest entry with the fingerprinted path. Query strings and
// fragments are kept. It returns the number of attributes changed.
func Rewrite(root *dom.Node, mount string, m *Manifest) int {
	resolver := NewResolver(m, "/")
	return rewrite(root, mount, m, resolver)
}

func rewrite(n *dom.Node, mount string, m *Manifest, r Resolver) int {
	changed := 0
	if n.Kind == dom.KindElement {
		for _, key := range linkAttributes {
			v, ok := n.GetAttribute(key)
			if !ok || !strings.HasPrefix(v, mount) {
				continue
			}
			source, suffix := v[len(mount):], ""
			if i := strings.IndexAny(source, "?#"); i >= 0 {
				source, suffix = source[:i], source[i:]
			}
			if !m.Has(source) {
				continue
			}
			n.SetAttribute(key, r.Asset(source)+suffix)
			changed++
		}
	}
	for _, c := range n.Children() {
		changed += rewrite(c, mount, m, r)
	}
	return changed
}
