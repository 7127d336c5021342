package typify

// Classification buckets an argument list by kind. Every list keeps the
// order the arguments were given in; the First* accessors return the first
// match. Absent categories are simply empty.
type Classification struct {
	Strings    []string
	Numbers    []float64
	Booleans   []bool
	Primitives []any
	Functions  []any
	Arrays     []any
	Objects    []any
	Nodes      []Node
	Widgets    []Widget
	Binders    []Cell
	Binds      []Descriptor

	// String sub-kinds.
	Events         []string
	Attributes     []string
	PseudoClasses  []string
	PseudoElements []string
	Styles         []string
}

// Classifier classifies argument lists. The zero value uses IsStyleName
// as its style probe.
type Classifier struct {
	Probe StyleProbe
}

// Default is the classifier used by Classify.
var Default = &Classifier{}

// Classify buckets args with the default classifier.
func Classify(args ...any) Classification {
	return Default.Classify(args...)
}

// IsStyle reports whether name is a style property according to the probe.
func (c *Classifier) IsStyle(name string) bool {
	if c == nil || c.Probe == nil {
		return IsStyleName(name)
	}
	return c.Probe(name)
}

// Classify buckets args by kind.
func (c *Classifier) Classify(args ...any) Classification {
	var out Classification
	for _, arg := range args {
		switch kind := KindOf(arg); kind {
		case KindString:
			s := Text(arg)
			out.Strings = append(out.Strings, s)
			out.Primitives = append(out.Primitives, arg)
			if IsEvent(s) {
				out.Events = append(out.Events, s)
			}
			if IsAttribute(s) {
				out.Attributes = append(out.Attributes, s)
			}
			if IsPseudoClass(s) {
				out.PseudoClasses = append(out.PseudoClasses, s)
			}
			if IsPseudoElement(s) {
				out.PseudoElements = append(out.PseudoElements, s)
			}
			if c.IsStyle(s) {
				out.Styles = append(out.Styles, s)
			}
		case KindNumber:
			n, _ := Number(arg)
			out.Numbers = append(out.Numbers, n)
			out.Primitives = append(out.Primitives, arg)
		case KindBoolean:
			out.Booleans = append(out.Booleans, Truthy(arg))
			out.Primitives = append(out.Primitives, arg)
		case KindFunction:
			out.Functions = append(out.Functions, arg)
		case KindArray:
			out.Arrays = append(out.Arrays, arg)
		case KindObject:
			out.Objects = append(out.Objects, arg)
		case KindNode:
			out.Nodes = append(out.Nodes, arg.(Node))
		case KindWidget:
			out.Widgets = append(out.Widgets, arg.(Widget))
		case KindBinder:
			out.Binders = append(out.Binders, arg.(Cell))
		case KindBind:
			out.Binds = append(out.Binds, arg.(Descriptor))
		}
	}
	return out
}

// IsPrimitive reports whether any primitive was classified.
func (c Classification) IsPrimitive() bool { return len(c.Primitives) > 0 }

// FirstString returns the first string argument.
func (c Classification) FirstString() (string, bool) {
	if len(c.Strings) == 0 {
		return "", false
	}
	return c.Strings[0], true
}

// FirstNumber returns the first numeric argument.
func (c Classification) FirstNumber() (float64, bool) {
	if len(c.Numbers) == 0 {
		return 0, false
	}
	return c.Numbers[0], true
}

// FirstBool returns the first boolean argument.
func (c Classification) FirstBool() (value, ok bool) {
	if len(c.Booleans) == 0 {
		return false, false
	}
	return c.Booleans[0], true
}

// FirstFunction returns the first function argument.
func (c Classification) FirstFunction() any {
	if len(c.Functions) == 0 {
		return nil
	}
	return c.Functions[0]
}

// FirstArray returns the first sequence argument.
func (c Classification) FirstArray() any {
	if len(c.Arrays) == 0 {
		return nil
	}
	return c.Arrays[0]
}

// FirstObject returns the first mapping argument.
func (c Classification) FirstObject() any {
	if len(c.Objects) == 0 {
		return nil
	}
	return c.Objects[0]
}

// FirstNode returns the first element handle.
func (c Classification) FirstNode() Node {
	if len(c.Nodes) == 0 {
		return nil
	}
	return c.Nodes[0]
}

// FirstWidget returns the first widget handle.
func (c Classification) FirstWidget() Widget {
	if len(c.Widgets) == 0 {
		return nil
	}
	return c.Widgets[0]
}

// FirstBinder returns the first reactive cell.
func (c Classification) FirstBinder() Cell {
	if len(c.Binders) == 0 {
		return nil
	}
	return c.Binders[0]
}

// FirstBind returns the first bind descriptor.
func (c Classification) FirstBind() Descriptor {
	if len(c.Binds) == 0 {
		return nil
	}
	return c.Binds[0]
}

// FirstEvent returns the first string that names an event.
func (c Classification) FirstEvent() (string, bool) {
	if len(c.Events) == 0 {
		return "", false
	}
	return c.Events[0], true
}
