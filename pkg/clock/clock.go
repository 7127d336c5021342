// Package clock is the host timer service behind every deferred step in
// jml: animation walks, interval directives, delayed visibility toggles and
// deferred hash navigation.
//
// Real schedules on the Go runtime timers and funnels callbacks through a
// shared lock so they never overlap. Manual fires callbacks synchronously
// from Advance, which is what tests and server-side rendering use.
package clock

import (
	"errors"
	"sort"
	"sync"
	"time"
)

// MinInterval is the shortest delay a repeating step is scheduled with.
const MinInterval = 4 * time.Millisecond

// DefaultMaxCallbacks bounds how many callbacks one Manual.Advance runs.
const DefaultMaxCallbacks = 10000

// ErrCallbackLimit is returned by Manual.Advance when it stopped firing
// timers because the callback limit was reached.
var ErrCallbackLimit = errors.New("clock: callback limit reached")

// Repeat clamps d to MinInterval.
func Repeat(d time.Duration) time.Duration {
	if d < MinInterval {
		return MinInterval
	}
	return d
}

// Timer is a scheduled callback.
type Timer interface {
	// Stop cancels the timer. It reports whether the call stopped it.
	Stop() bool
}

// Clock schedules deferred callbacks.
type Clock interface {
	AfterFunc(d time.Duration, fn func()) Timer
	Now() time.Time
}

// Real schedules callbacks with time.AfterFunc. Callbacks hold Lock while
// they run.
type Real struct {
	Lock sync.Locker
}

// NewReal returns a real clock serialising callbacks through lock. A nil
// lock gets a private mutex.
func NewReal(lock sync.Locker) *Real {
	if lock == nil {
		lock = &sync.Mutex{}
	}
	return &Real{Lock: lock}
}

// AfterFunc implements Clock.
func (r *Real) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, func() {
		r.Lock.Lock()
		defer r.Lock.Unlock()
		fn()
	})
}

// Now implements Clock.
func (r *Real) Now() time.Time { return time.Now() }

// Manual is a clock that only moves when Advance is called.
type Manual struct {
	// MaxCallbacks bounds the callbacks run by one Advance. Zero means
	// DefaultMaxCallbacks.
	MaxCallbacks int

	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	m       *Manual
	at      time.Time
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

// NewManual creates a manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// AfterFunc implements Clock.
func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTimer{m: m, at: m.now.Add(d), seq: m.seq, fn: fn}
	m.timers = append(m.timers, t)
	return t
}

// Now implements Clock.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending returns the number of timers that have not fired or stopped.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Advance moves time forward by d, firing due timers in deadline order.
// Timers scheduled by callbacks fire too if they fall within the window.
// After MaxCallbacks callbacks it stops, leaves the remaining timers
// pending and returns ErrCallbackLimit.
func (m *Manual) Advance(d time.Duration) error {
	m.mu.Lock()
	target := m.now.Add(d)
	limit := m.MaxCallbacks
	m.mu.Unlock()
	if limit <= 0 {
		limit = DefaultMaxCallbacks
	}
	var err error
	for n := 0; ; n++ {
		if n == limit {
			err = ErrCallbackLimit
			break
		}
		t := m.next(target)
		if t == nil {
			break
		}
		t.fn()
	}
	m.mu.Lock()
	m.now = target
	m.mu.Unlock()
	return err
}

// next pops the earliest due timer and moves now to its deadline.
func (m *Manual) next(target time.Time) *manualTimer {
	m.mu.Lock()
	defer m.mu.Unlock()
	live := m.timers[:0]
	for _, t := range m.timers {
		if !t.stopped && !t.fired {
			live = append(live, t)
		}
	}
	m.timers = live
	sort.SliceStable(m.timers, func(i, j int) bool {
		if m.timers[i].at.Equal(m.timers[j].at) {
			return m.timers[i].seq < m.timers[j].seq
		}
		return m.timers[i].at.Before(m.timers[j].at)
	})
	if len(m.timers) == 0 || m.timers[0].at.After(target) {
		return nil
	}
	t := m.timers[0]
	t.fired = true
	m.now = t.at
	return t
}

func (t *manualTimer) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}
