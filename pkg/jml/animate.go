package jml

import (
	"time"

	"github.com/jml-dev/jml/pkg/clock"
	"github.com/jml-dev/jml/pkg/dom"
	"github.com/jml-dev/jml/pkg/model"
	"github.com/jml-dev/jml/pkg/reactive"
	"github.com/jml-dev/jml/pkg/typify"
)

// isAnimation matches animation models ({to|through|loop} together with
// {interval|delay}) and teardown calls (a false flag on a station that
// has an animation running). It runs before the station handlers so any
// station, text included, can be animated.
func (e *Engine) isAnimation(c *call) bool {
	if c.low == "content" {
		return false
	}
	if c.prepend() && e.Running(c.node, c.station) {
		return true
	}
	return isAnimationModel(c.model)
}

func isAnimationModel(m any) bool {
	if !model.IsMapping(m) {
		return false
	}
	has := func(k string) bool {
		_, ok := model.Lookup(m, k)
		return ok
	}
	return (has("interval") || has("delay")) && (has("to") || has("through") || has("loop"))
}

// animate walks the station through a sequence of values.
//
//	interval    time between steps (ms or time.Duration, default 1s,
//	            at least clock.MinInterval)
//	delay       time before the first step (default 0, which starts now)
//	to          a value or values to step to, once
//	through     values to step through, once
//	loop        values to cycle through forever
//	repeat      number of passes, -1 for forever, or func(pass int) bool
//	transition  CSS transition set on the node before the first step
//	while       func(pass int) bool checked before every step
//
// A new animation on the same node and station replaces the running one.
// A false flag stops it and clears the transition.
func (e *Engine) animate(c *call) (any, bool) {
	node, station := c.node, c.station
	if c.prepend() {
		if e.cancel(node, station) {
			node.RemoveStyle("transition")
		}
		return node, true
	}
	m := c.model
	values, loop := animationValues(m)
	if len(values) == 0 {
		e.cancel(node, station)
		return node, true
	}
	interval := clock.Repeat(reactive.Duration(lookup(m, "interval"), time.Second))
	delay := reactive.Duration(lookup(m, "delay"), 0)
	again := repeatFunc(lookup(m, "repeat"), loop)
	while := passFunc(lookup(m, "while"))
	if tr := lookup(m, "transition"); tr != nil {
		node.SetStyle("transition", typify.Text(tr))
	}

	t := e.start(node, station)
	pass := 0
	var step func(i int)
	step = func(i int) {
		if !e.alive(node, station, t) {
			return
		}
		if while != nil && !while(pass) {
			e.finish(node, station, t)
			return
		}
		e.Set(node, values[i], station)
		if !e.alive(node, station, t) {
			return
		}
		next := i + 1
		if next == len(values) {
			pass++
			if !again(pass) {
				e.finish(node, station, t)
				return
			}
			next = 0
		}
		t.timer = e.clock.AfterFunc(interval, func() { step(next) })
	}
	if delay <= 0 {
		step(0)
	} else {
		t.timer = e.clock.AfterFunc(delay, func() { step(0) })
	}
	return node, true
}

func animationValues(m any) (values []any, loop bool) {
	for _, k := range []string{"loop", "through", "to"} {
		v, ok := model.Lookup(m, k)
		if !ok {
			continue
		}
		items, isSeq := model.Items(v)
		if !isSeq {
			items = []any{v}
		}
		return items, k == "loop"
	}
	return nil, false
}

// repeatFunc reports, after each completed pass, whether to start another.
func repeatFunc(v any, loop bool) func(pass int) bool {
	if f := passFunc(v); f != nil {
		return f
	}
	n := 1
	if loop {
		n = -1
	}
	if x, ok := typify.Number(v); ok {
		n = int(x)
	}
	return func(pass int) bool { return n < 0 || pass < n }
}

func passFunc(v any) func(pass int) bool {
	switch f := v.(type) {
	case func(int) bool:
		return f
	case func() bool:
		return func(int) bool { return f() }
	}
	return nil
}

func lookup(m any, key string) any {
	v, _ := model.Lookup(m, key)
	return v
}

// lifecycle runs the ready/done callbacks and the timeout/interval
// directives of a freshly created element's model.
func (e *Engine) lifecycle(elem *dom.Node, m any) {
	if !model.IsMapping(m) {
		return
	}
	for _, k := range []string{"ready", "onready", "done", "ondone"} {
		if f := nodeCallback(lookup(m, k)); f != nil {
			f(elem)
		}
	}
	if v := lookup(m, "timeout"); v != nil {
		e.timeout(elem, v)
	}
	if v := lookup(m, "interval"); v != nil {
		e.interval(elem, v)
	}
}

// timeout calls a function once, after {delay} (default 0). It is not
// tracked and cannot be cancelled.
func (e *Engine) timeout(elem *dom.Node, v any) {
	fn := nodeCallback(v)
	var after time.Duration
	if fn == nil {
		fn = nodeCallback(firstOf(v, "call", "function", "do"))
		after = reactive.Duration(firstOf(v, "delay", "after", "ms"), 0)
	}
	if fn == nil {
		e.logger.Warn("timeout has no function", "tag", elem.Tag)
		return
	}
	e.clock.AfterFunc(after, func() { fn(elem) })
}

// interval calls a function every {every} (default 1s) until it returns
// false, {repeat} calls were made, or another interval replaces it.
func (e *Engine) interval(elem *dom.Node, v any) {
	fn := nodeCallback(v)
	every := time.Second
	repeat := -1
	if fn == nil {
		fn = nodeCallback(firstOf(v, "call", "function", "do"))
		every = clock.Repeat(reactive.Duration(firstOf(v, "every", "interval", "ms"), time.Second))
		if n, ok := typify.Number(lookup(v, "repeat")); ok {
			repeat = int(n)
		}
	}
	if fn == nil {
		e.logger.Warn("interval has no function", "tag", elem.Tag)
		return
	}
	t := e.start(elem, "interval")
	count := 0
	var tick func()
	tick = func() {
		if !e.alive(elem, "interval", t) {
			return
		}
		count++
		if !fn(elem) || (repeat >= 0 && count >= repeat) {
			e.finish(elem, "interval", t)
			return
		}
		t.timer = e.clock.AfterFunc(every, tick)
	}
	t.timer = e.clock.AfterFunc(every, tick)
}
