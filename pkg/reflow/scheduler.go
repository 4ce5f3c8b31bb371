package reflow

import "time"

// Scheduler arranges for [Choreographer.Tick] to be called later.
type Scheduler interface {
	// ScheduleTick requests one tick after delay. Requests made while a tick
	// is already pending may be coalesced.
	ScheduleTick(delay time.Duration)

	// CancelTicks drops every pending tick.
	CancelTicks()
}

// Clock reads the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock is a Clock that only moves when told to.
type ManualClock struct {
	now time.Time
}

// NewManualClock returns a clock stopped at start.
func NewManualClock(start time.Time) *ManualClock { return &ManualClock{now: start} }

func (c *ManualClock) Now() time.Time { return c.now }

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// ManualScheduler records tick requests without running them. Callers fire
// the pending tick explicitly.
type ManualScheduler struct {
	pending   bool
	Scheduled int
	Cancelled int
}

func (s *ManualScheduler) ScheduleTick(time.Duration) {
	s.pending = true
	s.Scheduled++
}

func (s *ManualScheduler) CancelTicks() {
	s.pending = false
	s.Cancelled++
}

// Pending reports whether a tick has been requested and not yet fired.
func (s *ManualScheduler) Pending() bool { return s.pending }

// Fire runs tick if one is pending and reports whether it did.
func (s *ManualScheduler) Fire(tick func()) bool {
	if !s.pending {
		return false
	}
	s.pending = false
	tick()
	return true
}

// Run advances clock in steps of interval for d, firing pending ticks after
// each step. It stops early once no tick is pending.
func (s *ManualScheduler) Run(clock *ManualClock, interval, d time.Duration, tick func()) {
	for elapsed := time.Duration(0); elapsed < d && s.pending; elapsed += interval {
		clock.Advance(interval)
		s.Fire(tick)
	}
}
