package reactive

import (
	"time"

	"github.com/jml-dev/jml/pkg/clock"
	"github.com/jml-dev/jml/pkg/model"
	"github.com/jml-dev/jml/pkg/typify"
)

// Through walks b through values, holding each for the matching delay.
// A missing delay reuses the last one. With revert the original value is
// restored after the final delay. Calling Through, Loop, Flash or Stop
// again replaces the walk in progress.
func (b *Binder) Through(values []any, delays []time.Duration, revert bool) {
	if len(values) == 0 {
		return
	}
	gen := b.startWalk()
	original := b.value
	var step func(i int)
	step = func(i int) {
		if gen != b.walk {
			return
		}
		if i == len(values) {
			if revert {
				b.Set(original)
			}
			return
		}
		b.Set(values[i])
		if gen != b.walk {
			return
		}
		b.walkTimer = b.clock.AfterFunc(delayAt(delays, i), func() { step(i + 1) })
	}
	step(0)
}

// Loop cycles b through values forever, one step per delay (at least
// clock.MinInterval), until another walk replaces it or Stop is called.
func (b *Binder) Loop(values []any, delay time.Duration) {
	if len(values) == 0 {
		return
	}
	delay = clock.Repeat(delay)
	gen := b.startWalk()
	var step func(i int)
	step = func(i int) {
		if gen != b.walk {
			return
		}
		b.Set(values[i%len(values)])
		if gen != b.walk {
			return
		}
		b.walkTimer = b.clock.AfterFunc(delay, func() { step(i + 1) })
	}
	step(0)
}

// Flash is Through with loose arguments: values may be a single value or a
// sequence, and delay a time.Duration, a number of milliseconds, or a
// sequence of either. A nil delay means one second.
func (b *Binder) Flash(values any, delay any, revert bool) {
	list, ok := model.Items(values)
	if !ok {
		list = []any{values}
	}
	var delays []time.Duration
	if items, ok := model.Items(delay); ok {
		for _, d := range items {
			delays = append(delays, Duration(d, time.Second))
		}
	} else {
		delays = []time.Duration{Duration(delay, time.Second)}
	}
	b.Through(list, delays, revert)
}

// Stop cancels the walk in progress, if any.
func (b *Binder) Stop() {
	b.startWalk()
}

func (b *Binder) startWalk() int {
	b.walk++
	if b.walkTimer != nil {
		b.walkTimer.Stop()
		b.walkTimer = nil
	}
	return b.walk
}

func delayAt(delays []time.Duration, i int) time.Duration {
	switch {
	case len(delays) == 0:
		return 0
	case i < len(delays):
		return delays[i]
	default:
		return delays[len(delays)-1]
	}
}

// Duration reads a delay: a time.Duration as is, numbers as milliseconds.
// Anything else yields def.
func Duration(v any, def time.Duration) time.Duration {
	if d, ok := v.(time.Duration); ok {
		return d
	}
	if n, ok := typify.Number(v); ok {
		return time.Duration(n * float64(time.Millisecond))
	}
	return def
}
