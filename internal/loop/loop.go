// Package loop defines the single-threaded event loop the chat client runs
// on. Every callback handed to a Loop runs serially on the loop, so the
// components that share the transcript never need a lock.
package loop

import (
	"sort"
	"time"
)

// Loop is supplied by the host (the terminal program or a test).
type Loop interface {
	// After runs fn on the loop once d has elapsed.
	After(d time.Duration, fn func())
	// Go runs work off the loop. The continuation it returns, if any, is
	// then run on the loop.
	Go(work func() func())
}

type timer struct {
	at  time.Duration
	seq int
	fn  func()
}

// Manual is a deterministic Loop driven by a virtual clock. It is meant for
// tests: nothing runs until the caller advances time or completes work.
type Manual struct {
	now    time.Duration
	seq    int
	timers []timer
	jobs   []func() func()
}

// NewManual returns a Manual loop at virtual time zero.
func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) After(d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	m.seq++
	m.timers = append(m.timers, timer{at: m.now + d, seq: m.seq, fn: fn})
	sort.SliceStable(m.timers, func(i, j int) bool {
		if m.timers[i].at == m.timers[j].at {
			return m.timers[i].seq < m.timers[j].seq
		}
		return m.timers[i].at < m.timers[j].at
	})
}

func (m *Manual) Go(work func() func()) {
	m.jobs = append(m.jobs, work)
}

// Now reports the virtual time.
func (m *Manual) Now() time.Duration { return m.now }

// Pending reports how many Go jobs have not completed yet.
func (m *Manual) Pending() int { return len(m.jobs) }

// Timers reports how many timers are scheduled.
func (m *Manual) Timers() int { return len(m.timers) }

// Complete runs the oldest outstanding job and its continuation. It reports
// false when there was nothing to run.
func (m *Manual) Complete() bool {
	if len(m.jobs) == 0 {
		return false
	}
	work := m.jobs[0]
	m.jobs = m.jobs[1:]
	if cont := work(); cont != nil {
		cont()
	}
	return true
}

// CompleteAll runs outstanding jobs, including the ones their continuations
// start, until none are left.
func (m *Manual) CompleteAll() {
	for m.Complete() {
	}
}

// Advance moves the clock forward by d, firing due timers in order. Timers
// scheduled by a firing callback also fire if they fall inside the window.
func (m *Manual) Advance(d time.Duration) {
	until := m.now + d
	for len(m.timers) > 0 && m.timers[0].at <= until {
		t := m.timers[0]
		m.timers = m.timers[1:]
		m.now = t.at
		t.fn()
	}
	m.now = until
}

// Drain runs everything: jobs first, then the earliest timer, until the
// loop is idle.
func (m *Manual) Drain() {
	for {
		if m.Complete() {
			continue
		}
		if len(m.timers) == 0 {
			return
		}
		m.Advance(m.timers[0].at - m.now)
	}
}
