package sizeobs

import (
	"sync"
	"time"
)

// Debouncer runs fn once after the window has elapsed without a new Schedule.
//
// There is at most one pending task. Each Schedule call pushes the deadline
// back by a full window. After Stop the debouncer never runs fn again, even
// when a timer already fired concurrently.
type Debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	fn      func()
	timer   *time.Timer
	seq     uint64
	stopped bool
}

// NewDebouncer creates a Debouncer. A non-positive window runs fn synchronously
// on every Schedule.
func NewDebouncer(window time.Duration, fn func()) *Debouncer {
	return &Debouncer{window: window, fn: fn}
}

// Schedule (re)arms the pending task.
func (d *Debouncer) Schedule() {
	d.mu.Lock()

	if d.stopped {
		d.mu.Unlock()
		return
	}

	if d.window <= 0 {
		d.mu.Unlock()
		d.fn()

		return
	}

	d.cancelLocked()

	d.seq++
	seq := d.seq
	d.timer = time.AfterFunc(d.window, func() { d.fire(seq) })
	d.mu.Unlock()
}

// Cancel drops the pending task without running it.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cancelLocked()
}

// Pending reports whether a task is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.timer != nil
}

// Stop cancels the pending task and disables the debouncer.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cancelLocked()
	d.stopped = true
}

// cancelLocked stops the timer and invalidates its sequence.
func (d *Debouncer) cancelLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	d.seq++
}

// fire runs fn if the task identified by seq is still the pending one.
func (d *Debouncer) fire(seq uint64) {
	d.mu.Lock()

	if d.stopped || seq != d.seq {
		d.mu.Unlock()
		return
	}

	d.timer = nil
	d.mu.Unlock()

	d.fn()
}
