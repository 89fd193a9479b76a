// Package debounce collapses bursts of input into a single trailing call.
package debounce

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet window used by the image pickers.
const DefaultDelay = 500 * time.Millisecond

// Scheduler owns at most one pending timer. Every Schedule supersedes the
// previous one, so only the last call inside the quiet window runs.
type Scheduler struct {
	clock Clock
	delay time.Duration

	mu      sync.Mutex
	timer   Timer
	seq     uint64
	stopped bool
}

// NewScheduler creates a scheduler with the given quiet window.
// A nil clock means the wall clock; a non-positive delay means DefaultDelay.
func NewScheduler(clock Clock, delay time.Duration) *Scheduler {
	if clock == nil {
		clock = RealClock()
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Scheduler{clock: clock, delay: delay}
}

// Delay returns the quiet window.
func (s *Scheduler) Delay() time.Duration {
	return s.delay
}

// Schedule (re)starts the timer; fn runs once the window elapses without
// another Schedule, Cancel or Stop. It returns false after Stop.
func (s *Scheduler) Schedule(fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return false
	}
	s.releaseLocked()

	s.seq++
	seq := s.seq
	s.timer = s.clock.AfterFunc(s.delay, func() {
		s.mu.Lock()
		// A timer that lost the race with Stop/Schedule must not run.
		if s.stopped || s.seq != seq {
			s.mu.Unlock()
			return
		}
		s.timer = nil
		s.mu.Unlock()

		fn()
	})
	return true
}

// Cancel drops the pending call, if any. It reports whether one was pending.
func (s *Scheduler) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := s.timer != nil
	s.releaseLocked()
	return pending
}

// Pending reports whether a call is waiting for the window to elapse.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

// Stop cancels any pending call and refuses further scheduling.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.releaseLocked()
	s.stopped = true
}

func (s *Scheduler) releaseLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	// Invalidate a callback that already fired and is waiting on s.mu.
	s.seq++
}
