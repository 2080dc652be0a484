package pipeline

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Debouncer runs only the last function triggered within a quiet window.
type Debouncer struct {
	clock clockwork.Clock
	wait  time.Duration
	onRun func()

	mu    sync.Mutex
	gen   uint64
	timer clockwork.Timer
}

// NewDebouncer creates a debouncer. onRun, if set, is called each time a
// debounced function runs.
func NewDebouncer(clock clockwork.Clock, wait time.Duration, onRun func()) *Debouncer {
	return &Debouncer{clock: clock, wait: wait, onRun: onRun}
}

// Trigger schedules fn to run after the quiet window, replacing any pending
// function and restarting the window.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	d.gen++
	gen := d.gen
	prev := d.timer
	d.timer = nil
	d.mu.Unlock()

	if prev != nil {
		prev.Stop()
	}
	// The lock is not held across AfterFunc; a fake clock may run the
	// callback before AfterFunc returns.
	fired := false
	t := d.clock.AfterFunc(d.wait, func() {
		d.mu.Lock()
		if gen != d.gen {
			d.mu.Unlock()
			return
		}
		fired = true
		d.timer = nil
		d.mu.Unlock()

		if d.onRun != nil {
			d.onRun()
		}
		fn()
	})

	d.mu.Lock()
	if gen == d.gen && !fired {
		d.timer = t
	}
	d.mu.Unlock()
}

// Pending reports whether a function is waiting for its window to elapse.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels any pending function.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.gen++
	t := d.timer
	d.timer = nil
	d.mu.Unlock()

	if t != nil {
		t.Stop()
	}
}
