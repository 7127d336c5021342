package typify

// StyleProperties lists the camelCase style property names the default
// probe recognises. Dash-case spellings are accepted too.
var StyleProperties = []string{
	"alignContent", "alignItems", "alignSelf", "all", "animation", "animationDelay",
	"animationDirection", "animationDuration", "animationFillMode", "animationIterationCount",
	"animationName", "animationPlayState", "animationTimingFunction", "appearance",
	"aspectRatio", "backdropFilter", "backfaceVisibility", "background", "backgroundAttachment",
	"backgroundBlendMode", "backgroundClip", "backgroundColor", "backgroundImage",
	"backgroundOrigin", "backgroundPosition", "backgroundRepeat", "backgroundSize",
	"blockSize", "border", "borderBottom", "borderBottomColor", "borderBottomLeftRadius",
	"borderBottomRightRadius", "borderBottomStyle", "borderBottomWidth", "borderCollapse",
	"borderColor", "borderImage", "borderImageOutset", "borderImageRepeat", "borderImageSlice",
	"borderImageSource", "borderImageWidth", "borderLeft", "borderLeftColor", "borderLeftStyle",
	"borderLeftWidth", "borderRadius", "borderRight", "borderRightColor", "borderRightStyle",
	"borderRightWidth", "borderSpacing", "borderStyle", "borderTop", "borderTopColor",
	"borderTopLeftRadius", "borderTopRightRadius", "borderTopStyle", "borderTopWidth",
	"borderWidth", "bottom", "boxDecorationBreak", "boxShadow", "boxSizing", "breakAfter",
	"breakBefore", "breakInside", "captionSide", "caretColor", "clear", "clip", "clipPath",
	"color", "columnCount", "columnFill", "columnGap", "columnRule", "columnRuleColor",
	"columnRuleStyle", "columnRuleWidth", "columnSpan", "columnWidth", "columns", "content",
	"counterIncrement", "counterReset", "cursor", "direction", "display", "emptyCells",
	"filter", "flex", "flexBasis", "flexDirection", "flexFlow", "flexGrow", "flexShrink",
	"flexWrap", "float", "font", "fontFamily", "fontFeatureSettings", "fontKerning",
	"fontSize", "fontSizeAdjust", "fontStretch", "fontStyle", "fontVariant", "fontWeight",
	"gap", "grid", "gridArea", "gridAutoColumns", "gridAutoFlow", "gridAutoRows",
	"gridColumn", "gridColumnEnd", "gridColumnGap", "gridColumnStart", "gridGap", "gridRow",
	"gridRowEnd", "gridRowGap", "gridRowStart", "gridTemplate", "gridTemplateAreas",
	"gridTemplateColumns", "gridTemplateRows", "hangingPunctuation", "height", "hyphens",
	"imageRendering", "inlineSize", "inset", "isolation", "justifyContent", "justifyItems",
	"justifySelf", "left", "letterSpacing", "lineHeight", "listStyle", "listStyleImage",
	"listStylePosition", "listStyleType", "margin", "marginBottom", "marginLeft",
	"marginRight", "marginTop", "mask", "maxHeight", "maxWidth", "minHeight", "minWidth",
	"mixBlendMode", "objectFit", "objectPosition", "opacity", "order", "orphans", "outline",
	"outlineColor", "outlineOffset", "outlineStyle", "outlineWidth", "overflow",
	"overflowWrap", "overflowX", "overflowY", "padding", "paddingBottom", "paddingLeft",
	"paddingRight", "paddingTop", "pageBreakAfter", "pageBreakBefore", "pageBreakInside",
	"perspective", "perspectiveOrigin", "placeContent", "placeItems", "placeSelf",
	"pointerEvents", "position", "quotes", "resize", "right", "rotate", "rowGap", "scale",
	"scrollBehavior", "scrollMargin", "scrollPadding", "scrollSnapAlign", "scrollSnapType",
	"tabSize", "tableLayout", "textAlign", "textAlignLast", "textDecoration",
	"textDecorationColor", "textDecorationLine", "textDecorationStyle", "textIndent",
	"textJustify", "textOverflow", "textShadow", "textTransform", "textUnderlineOffset",
	"top", "transform", "transformOrigin", "transformStyle", "transition", "transitionDelay",
	"transitionDuration", "transitionProperty", "transitionTimingFunction", "translate",
	"unicodeBidi", "userSelect", "verticalAlign", "visibility", "whiteSpace", "widows",
	"width", "willChange", "wordBreak", "wordSpacing", "wordWrap", "writingMode", "zIndex",
	"zoom",
}

var styleSet = toSet(StyleProperties)

// StyleProbe answers whether a name is a style property on the host.
// Hosts with a live style object inject their own probe.
type StyleProbe func(name string) bool

// IsStyleName is the default StyleProbe.
func IsStyleName(name string) bool {
	if name == "" {
		return false
	}
	if styleSet[name] {
		return true
	}
	for i := 0; i < len(name); i++ {
		if name[i] == '-' {
			return styleSet[Camelize(name)]
		}
	}
	return false
}
