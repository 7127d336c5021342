// Package dom provides the live, mutable element tree that jml models are
// applied to.
//
// The tree plays the role a browser DOM plays for client-side code: nodes
// are created by a Document, carry attributes, an inline style object,
// free-form properties and event listeners, and can be queried with simple
// CSS selectors. Inner markup is parsed and serialized with
// golang.org/x/net/html so server-side rendering sees the same structure a
// browser would build.
//
// # Core Types
//
// Node is an element, text or comment node. Document owns the html, head
// and body elements, a Location (hash and search), a Storage and the id
// Registry.
//
// # Registry
//
// Registry maps ids to the nodes that were given them. Assigning an id that
// is already registered appends the node; nothing is ever removed.
//
// A Node is not safe for concurrent use.
package dom
