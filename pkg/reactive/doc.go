// Package reactive provides binders: cells holding a value that push every
// assignment, synchronously and in creation order, through their bonds to
// node stations or to other binders, then notify passive listeners.
//
// A bond from one binder to another marks the source as the target's
// setter for the duration of that assignment, so two binders bound to each
// other do not bounce a value back and forth:
//
//	a := reactive.New("x")
//	b := reactive.New("x")
//	a.Bind(b)
//	b.Bind(a)
//	a.Set("y") // b becomes "y"; a is not re-entered
//
// Bind without a target returns a *Bind descriptor. Descriptors are placed
// inside a model and attached to a node station by the model applier.
package reactive
