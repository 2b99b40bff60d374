// Package frame coordinates per-frame work between the canvas and its host.
//
// The canvas asks for a frame when it has deferred work; the host answers by
// calling back on its next frame (a tick in a terminal UI, an animation
// frame elsewhere). Requests are idempotent while one is outstanding.
package frame

import "time"

// DefaultThrottle is the minimum interval between drag recomputes
const DefaultThrottle = 80 * time.Millisecond

// Requester is implemented by hosts that can schedule a frame callback
type Requester interface {
	RequestFrame()
}

// RequesterFunc adapts a function to Requester
type RequesterFunc func()

// RequestFrame calls f
func (f RequesterFunc) RequestFrame() { f() }

// Scheduler deduplicates frame requests
type Scheduler struct {
	host    Requester
	pending bool
}

// NewScheduler creates a scheduler forwarding to host; a nil host is allowed
// and makes requests purely local
func NewScheduler(host Requester) *Scheduler {
	return &Scheduler{host: host}
}

// Request asks the host for a frame unless one is already pending
func (s *Scheduler) Request() bool {
	if s.pending {
		return false
	}
	s.pending = true
	if s.host != nil {
		s.host.RequestFrame()
	}
	return true
}

// Pending reports whether a frame has been requested and not yet taken
func (s *Scheduler) Pending() bool {
	return s.pending
}

// Take clears the pending flag; call it at the start of a frame callback
func (s *Scheduler) Take() bool {
	was := s.pending
	s.pending = false
	return was
}

// Throttle allows an action at most once per interval
type Throttle struct {
	interval time.Duration
	last     time.Time
}

// NewThrottle creates a throttle; a non-positive interval disables it
func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{interval: interval}
}

// Allow reports whether the action may run at now and, if so, records it
func (t *Throttle) Allow(now time.Time) bool {
	if t.interval > 0 && !t.last.IsZero() && now.Sub(t.last) < t.interval {
		return false
	}
	t.last = now
	return true
}

// Reset forgets the last run so the next Allow succeeds
func (t *Throttle) Reset() {
	t.last = time.Time{}
}

// Interval returns the configured interval
func (t *Throttle) Interval() time.Duration {
	return t.interval
}
