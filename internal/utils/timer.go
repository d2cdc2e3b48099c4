package utils

import "time"

// Timer measures elapsed wall-clock time for one operation. Create one with
// [NewTimer], which starts it immediately; [Timer.Stop] freezes the reading.
type Timer struct {
	startTime time.Time
	duration  time.Duration
	stopped   bool
}

// NewTimer creates a new Timer and immediately starts it.
func NewTimer() *Timer {
	return &Timer{startTime: time.Now()}
}

// Stop freezes the elapsed duration. Later calls are no-ops, so deferred and
// explicit stops can coexist.
func (t *Timer) Stop() time.Duration {
	if !t.stopped {
		t.duration = time.Since(t.startTime)
		t.stopped = true
	}
	return t.duration
}

// Elapsed returns the frozen duration after Stop, or the running duration
// before it.
func (t *Timer) Elapsed() time.Duration {
	if t.stopped {
		return t.duration
	}
	return time.Since(t.startTime)
}

// Millis returns Elapsed as fractional milliseconds, the unit histograms use.
func (t *Timer) Millis() float64 {
	return float64(t.Elapsed()) / float64(time.Millisecond)
}
