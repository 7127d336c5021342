// Package model defines the untyped description values that the jml engine
// interprets.
//
// A model is any of:
//
//   - a primitive (string, bool, or any Go integer or float kind)
//   - a sequence ([]any, or any slice)
//   - a mapping whose keys are station names
//
// Mappings come in two flavours. Object keeps insertion order and is what
// the page decoders produce; plain map[string]any values are accepted too
// and are walked in sorted key order so that application stays
// deterministic.
//
//	model.Object{
//	    {"h1", "Title"},
//	    {"p", model.Object{{"class", "lead"}, {"text", "Hello"}}},
//	}
package model
