package core

import "time"

// FixedStep paces simulation steps from a frame loop: ShouldStep reports true
// at most once per interval, however often it is polled.
type FixedStep struct {
	interval    time.Duration
	accumulator time.Duration
	last        time.Time
	now         func() time.Time
}

// NewFixedStep constructs a FixedStep that fires once per interval. The first
// poll fires immediately.
func NewFixedStep(interval time.Duration) *FixedStep {
	fs := &FixedStep{now: time.Now}
	fs.SetInterval(interval)
	fs.accumulator = fs.interval
	return fs
}

// SetInterval changes the cadence. Non-positive values fall back to one second.
func (f *FixedStep) SetInterval(interval time.Duration) {
	if interval <= 0 {
		interval = time.Second
	}
	f.interval = interval
}

// Interval returns the current cadence.
func (f *FixedStep) Interval() time.Duration { return f.interval }

// Reset drops any accumulated time so the next step is a full interval away.
func (f *FixedStep) Reset() {
	f.accumulator = 0
	f.last = time.Time{}
}

// ShouldStep reports whether the simulation should advance by one step.
func (f *FixedStep) ShouldStep() bool {
	now := f.now()
	if f.last.IsZero() {
		f.last = now
	}
	delta := now.Sub(f.last)
	f.last = now
	f.accumulator += delta
	if f.accumulator >= f.interval {
		f.accumulator -= f.interval
		// Long stalls do not queue a burst of catch-up steps.
		if f.accumulator > f.interval {
			f.accumulator = f.interval
		}
		return true
	}
	return false
}
