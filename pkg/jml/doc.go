// Package jml materializes nested models onto a live dom tree.
//
// A model is a primitive, a sequence, or a mapping whose keys are station
// names: where on a node a value goes. The engine decides, key by key,
// whether a station denotes a child tag, text content, a style property,
// an attribute, an event listener, a binder, or a head directive, and
// mutates the tree accordingly:
//
//	doc := dom.NewDocument()
//	e := jml.New(doc)
//	e.Apply(model.Object{
//		{Key: "title", Value: "Deck"},
//		{Key: "h1", Value: "Cards"},
//		{Key: "p_lead", Value: "Pick one."},
//	})
//
// Station resolution is an ordered table of rules, first match wins.
// Unknown stations never fail: they fall back to attributes and finally to
// creating a child element with the station as its tag.
//
// An Engine is not safe for concurrent use. Timer callbacks scheduled with
// a clock.Real run holding Engine.Locker, so hosts that touch the tree from
// other goroutines should hold it too.
package jml
