package typify

import "strings"

// Events lists the event names recognised as listener stations.
var Events = []string{"abort", "afterprint", "animationend", "animationiteration", "animationstart", "beforeprint", "beforeunload", "blur", "canplay", "canplaythrough", "change", "click", "contextmenu", "copy", "cut", "dblclick", "drag", "dragend", "dragenter", "dragleave", "dragover", "dragstart", "drop", "durationchange", "ended", "error", "focus", "focusin", "focusout", "fullscreenchange", "fullscreenerror", "hashchange", "input", "invalid", "keydown", "keypress", "keyup", "load", "loadeddata", "loadedmetadata", "loadstart", "message", "mousedown", "mouseenter", "mouseleave", "mousemove", "mouseover", "mouseout", "mouseup", "offline", "online", "open", "pagehide", "pageshow", "paste", "pause", "play", "playing", "progress", "ratechange", "resize", "reset", "scroll", "search", "seeked", "seeking", "select", "show", "stalled", "submit", "suspend", "timeupdate", "toggle", "touchcancel", "touchend", "touchmove", "touchstart", "transitionend", "unload", "volumechange", "waiting", "wheel"}

// Attributes lists the HTML attribute names recognised as attribute stations.
var Attributes = []string{"accept", "accept-charset", "accesskey", "action", "align", "alt", "async", "autocomplete", "autofocus", "autoplay", "bgcolor", "border", "charset", "checked", "cite", "class", "color", "cols", "colspan", "content", "contenteditable", "controls", "coords", "data", "datetime", "default", "defer", "dir", "dirname", "disabled", "download", "draggable", "enctype", "for", "form", "formaction", "headers", "height", "hidden", "high", "href", "hreflang", "http-equiv", "id", "ismap", "kind", "lang", "list", "loop", "low", "max", "maxlength", "media", "method", "min", "multiple", "muted", "name", "novalidate", "open", "optimum", "pattern", "placeholder", "poster", "preload", "readonly", "rel", "required", "reversed", "rows", "rowspan", "sandbox", "scope", "selected", "shape", "size", "sizes", "spellcheck", "src", "srcdoc", "srclang", "srcset", "start", "step", "style", "tabindex", "target", "title", "translate", "type", "usemap", "value", "wrap", "width"}

// PseudoClasses lists CSS pseudo-class names.
var PseudoClasses = []string{"active", "checked", "disabled", "empty", "enabled", "first-child", "last-child", "first-of-type", "focus", "hover", "in-range", "invalid", "last-of-type", "link", "only-of-type", "only-child", "optional", "out-of-range", "read-only", "read-write", "required", "root", "target", "valid", "visited", "lang", "not", "nth-child", "nth-last-child", "nth-last-of-type", "nth-of-type"}

// PseudoElements lists CSS pseudo-element names.
var PseudoElements = []string{"after", "before", "first-letter", "first-line", "selection"}

// MetaNames are head stations rendered as <meta name=...>.
var MetaNames = []string{"viewport", "keywords", "description", "author", "refresh", "application-name", "generator"}

// HTTPEquivs are head stations rendered as <meta http-equiv=...>.
var HTTPEquivs = []string{"contentSecurityPolicy", "contentType", "defaultStyle", "content-security-policy", "content-type", "default-style", "refresh"}

// HeadStations are top-level model keys routed to the document head.
var HeadStations = append([]string{"meta", "link", "title", "font", "icon", "image", "charset"}, append(append([]string{}, MetaNames...), HTTPEquivs...)...)

// ReservedStations are consumed as metadata and never applied.
var ReservedStations = []string{"tag", "id", "bind", "with", "as", "binders", "onready", "ready", "done", "ondone", "timeout", "interval"}

// ListenerStations take an explicit listener description.
var ListenerStations = []string{"addevent", "addeventlistener", "eventlistener", "listener", "on"}

// ContentAliases resolve to the content station.
var ContentAliases = []string{"", "create", "assign", "model", "inner", "set", "undefined", "content"}

var (
	eventSet         = toSet(Events)
	attributeSet     = toSet(Attributes)
	pseudoClassSet   = toSet(PseudoClasses)
	pseudoElementSet = toSet(PseudoElements)
	metaNameSet      = toSet(MetaNames)
	httpEquivSet     = toSet(HTTPEquivs)
	headSet          = toSet(HeadStations)
	reservedSet      = toSet(ReservedStations)
	listenerSet      = toSet(ListenerStations)
	contentAliasSet  = toSet(ContentAliases)
)

func toSet(names []string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// IsEvent reports whether name is a known event.
func IsEvent(name string) bool { return eventSet[name] }

// IsAttribute reports whether name is a known attribute.
func IsAttribute(name string) bool { return attributeSet[name] }

// IsPseudoClass reports whether name is a known pseudo-class.
func IsPseudoClass(name string) bool { return pseudoClassSet[name] }

// IsPseudoElement reports whether name is a known pseudo-element.
func IsPseudoElement(name string) bool { return pseudoElementSet[name] }

// IsMetaName reports whether name is rendered as a named meta tag.
func IsMetaName(name string) bool { return metaNameSet[name] }

// IsHTTPEquiv reports whether name is rendered as an http-equiv meta tag.
func IsHTTPEquiv(name string) bool { return httpEquivSet[name] }

// IsHeadStation reports whether a top-level key belongs to the head.
func IsHeadStation(name string) bool { return headSet[name] || headSet[strings.ToLower(name)] }

// IsReserved reports whether the station is reserved metadata.
func IsReserved(name string) bool { return reservedSet[name] }

// IsListenerStation reports whether the station takes a listener description.
func IsListenerStation(name string) bool { return listenerSet[name] }

// IsContentAlias reports whether the station resolves to content.
func IsContentAlias(name string) bool { return contentAliasSet[name] }

// DocType sniffs a link/script type from a file extension.
func DocType(file string) string {
	ext := file
	if i := strings.LastIndex(file, "."); i >= 0 {
		ext = file[i+1:]
	}
	switch ext {
	case "css":
		return "stylesheet"
	case "sass":
		return "stylesheet/sass"
	case "scss":
		return "stylesheet/scss"
	case "less":
		return "stylesheet/less"
	case "js":
		return "text/javascript"
	case "ico":
		return "icon"
	}
	return ""
}

// Uncamelize converts camelCase to dash-case (or another separator).
func Uncamelize(s string, sep ...string) string {
	char := "-"
	if len(sep) > 0 {
		char = sep[0]
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			b.WriteString(char)
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Camelize converts dash-case, snake_case or spaced words to camelCase.
func Camelize(s string) string {
	var b strings.Builder
	upper := false
	first := true
	for _, r := range s {
		if r == '-' || r == '_' || r == ' ' {
			upper = !first
			continue
		}
		switch {
		case first:
			if r >= 'A' && r <= 'Z' {
				r += 'a' - 'A'
			}
			first = false
		case upper:
			if r >= 'a' && r <= 'z' {
				r -= 'a' - 'A'
			}
		}
		upper = false
		b.WriteRune(r)
	}
	return b.String()
}
