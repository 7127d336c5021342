package dom

import "sync"

// Registry maps ids to the nodes that were given them. It is the explicit
// replacement for named globals: ids are inserted when assigned, a repeated
// id appends, and nothing is removed.
type Registry struct {
	mu    sync.RWMutex
	nodes map[string][]*Node
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{nodes: make(map[string][]*Node)}
}

// Add registers nodes under id.
func (r *Registry) Add(id string, nodes ...*Node) {
	if id == "" || len(nodes) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.nodes[id]; !ok {
		r.order = append(r.order, id)
	}
	for _, n := range nodes {
		if n != nil {
			r.nodes[id] = append(r.nodes[id], n)
		}
	}
}

// Lookup returns every node registered under id.
func (r *Registry) Lookup(id string) []*Node {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Node, len(r.nodes[id]))
	copy(out, r.nodes[id])
	return out
}

// Get returns the first node registered under id.
func (r *Registry) Get(id string) *Node {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if nodes := r.nodes[id]; len(nodes) > 0 {
		return nodes[0]
	}
	return nil
}

// Has reports whether id was registered.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.nodes[id]
	return ok
}

// IDs returns the registered ids in registration order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of distinct ids.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
