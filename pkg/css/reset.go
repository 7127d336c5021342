package css

import "github.com/jml-dev/jml/pkg/model"

// Reset is the global reset stylesheet injected once per document.
var Reset = model.Object{
	{Key: "*", Value: model.Object{
		{Key: "boxSizing", Value: "border-box"},
		{Key: "verticalAlign", Value: "baseline"},
		{Key: "lineHeight", Value: "1.25em"},
		{Key: "margin", Value: 0},
		{Key: "padding", Value: 0},
		{Key: "border", Value: 0},
		{Key: "borderSpacing", Value: 0},
		{Key: "borderCollapse", Value: "collapse"},
		{Key: "listStyle", Value: "none"},
		{Key: "quotes", Value: "none"},
		{Key: "content", Value: "none"},
		{Key: "backgroundColor", Value: "transparent"},
		{Key: "fontSize", Value: "100%"},
		{Key: "font", Value: "inherit"},
	}},
	{Key: "article, aside, details, figcaption, figure, footer, header, hgroup, menu, nav, section", Value: model.Object{
		{Key: "display", Value: "block"},
	}},
	{Key: "body", Value: model.Object{
		{Key: "fontFamily", Value: "Arial, sans-serif"},
		{Key: "fontSize", Value: "14px"},
	}},
	{Key: "b, strong", Value: model.Object{{Key: "fontWeight", Value: "bold"}}},
	{Key: "i, em", Value: model.Object{{Key: "fontStyle", Value: "italic"}}},
	{Key: "a", Value: model.Object{
		{Key: "textDecoration", Value: "none"},
		{Key: "cursor", Value: "pointer"},
	}},
	{Key: "input, button, select", Value: model.Object{
		{Key: "padding", Value: "0.2em"},
		{Key: "borderRadius", Value: "0.25em"},
		{Key: "border", Value: "solid 1px gray"},
		{Key: "backgroundColor", Value: "white"},
	}},
	{Key: `button, input[type="button"], input[type="submit"]`, Value: model.Object{
		{Key: "cursor", Value: "pointer"},
		{Key: "borderColor", Value: "gray"},
		{Key: "paddingLeft", Value: "1em"},
		{Key: "paddingRight", Value: "1em"},
		{Key: "backgroundColor", Value: "#eee"},
		{Key: "boxShadow", Value: "0.5px 0.5px 1px black"},
	}},
	{Key: `button:active, input[type="button"]:active, input[type="submit"]:active`, Value: model.Object{
		{Key: "boxShadow", Value: "none"},
	}},
	{Key: "ol, ul", Value: model.Object{{Key: "listStyle", Value: "none"}}},
	{Key: "blockquote, q", Value: model.Object{
		{Key: "quotes", Value: "none"},
		{Key: "before", Value: model.Object{{Key: "content", Value: `""`}}},
		{Key: "after", Value: model.Object{{Key: "content", Value: `""`}}},
	}},
	{Key: "table", Value: model.Object{
		{Key: "borderCollapse", Value: "collapse"},
		{Key: "borderSpacing", Value: 0},
	}},
	{Key: "h1", Value: model.Object{{Key: "fontSize", Value: "2em"}}},
	{Key: "h2", Value: model.Object{{Key: "fontSize", Value: "1.82em"}}},
	{Key: "h3", Value: model.Object{{Key: "fontSize", Value: "1.67em"}}},
	{Key: "h4", Value: model.Object{{Key: "fontSize", Value: "1.5em"}}},
	{Key: "h5", Value: model.Object{{Key: "fontSize", Value: "1.33em"}}},
	{Key: "h6", Value: model.Object{{Key: "fontSize", Value: "1.17em"}}},
}
