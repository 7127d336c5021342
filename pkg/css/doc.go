// Package css converts nested style models into flat stylesheet text.
//
// A style model is a mapping of selectors to declarations. Nested
// mappings desugar into sibling rules with composed selectors:
//
//	a_btn          -> a.btn
//	{a: {hover: {...}}}        -> a:hover
//	{a: {before: {...}}}       -> a::before
//	{a: {__active: {...}}}     -> a.active
//	{ul: {">li": {...}}}       -> ul>li
//	{ul: {li_: {...}}}         -> ul>li
//	{nav: {a: {...}}}          -> nav a
//	{h: {...}}                 -> h1 .. h6, one rule each
//
// Leaf property names are converted from camelCase to dash-case and src
// values are wrapped in url(...).
package css
