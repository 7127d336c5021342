package dom

// Event is dispatched to listeners.
type Event struct {
	// Type is the event name without the "on" prefix (e.g., "click").
	Type string

	// Target is the node the event was dispatched on. Nil for window events.
	Target *Node

	// Detail carries event-specific data.
	Detail any

	defaultPrevented bool
	stopped          bool
}

// PreventDefault marks the event as handled.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation stops the event from bubbling further.
func (e *Event) StopPropagation() { e.stopped = true }

// Listener handles an event.
type Listener func(*Event)

// ListenerOptions mirror addEventListener options.
type ListenerOptions struct {
	Capture bool
	Once    bool
}

type listenerEntry struct {
	id   int
	fn   Listener
	opts ListenerOptions
}

// eventTarget keeps listeners per event type in registration order.
type eventTarget struct {
	listeners map[string][]listenerEntry
	next      int
}

func (t *eventTarget) add(typ string, fn Listener, opts ListenerOptions) int {
	if fn == nil {
		return -1
	}
	if t.listeners == nil {
		t.listeners = make(map[string][]listenerEntry)
	}
	id := t.next
	t.next++
	t.listeners[typ] = append(t.listeners[typ], listenerEntry{id: id, fn: fn, opts: opts})
	return id
}

func (t *eventTarget) remove(typ string, id int) {
	entries := t.listeners[typ]
	for i, e := range entries {
		if e.id == id {
			t.listeners[typ] = append(entries[:i], entries[i+1:]...)
			return
		}
	}
}

func (t *eventTarget) dispatch(ev *Event) {
	entries := append([]listenerEntry(nil), t.listeners[ev.Type]...)
	for _, e := range entries {
		if e.opts.Once {
			t.remove(ev.Type, e.id)
		}
		e.fn(ev)
	}
}

func (t *eventTarget) count(typ string) int {
	return len(t.listeners[typ])
}

// AddEventListener registers fn for the event type and returns a handle
// for RemoveEventListener.
func (n *Node) AddEventListener(typ string, fn Listener, opts ...ListenerOptions) int {
	var o ListenerOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	return n.events.add(typ, fn, o)
}

// RemoveEventListener removes a listener by handle.
func (n *Node) RemoveEventListener(typ string, id int) {
	n.events.remove(typ, id)
}

// ListenerCount returns the number of listeners for an event type.
func (n *Node) ListenerCount(typ string) int {
	return n.events.count(typ)
}

// DispatchEvent runs the node's listeners, then bubbles to ancestors
// unless propagation is stopped.
func (n *Node) DispatchEvent(ev *Event) {
	if ev.Target == nil {
		ev.Target = n
	}
	for cur := n; cur != nil && !ev.stopped; cur = cur.parent {
		cur.events.dispatch(ev)
	}
}

// Dispatch is shorthand for DispatchEvent with a new event of the given type.
func (n *Node) Dispatch(typ string) *Event {
	ev := &Event{Type: typ, Target: n}
	n.DispatchEvent(ev)
	return ev
}
