package dom

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// rawTextElements hold their text unescaped.
var rawTextElements = map[string]bool{
	"script": true,
	"style":  true,
}

// IsRawTextElement returns true if the element's text is not escaped.
func IsRawTextElement(tag string) bool {
	return rawTextElements[tag]
}
