package debouncer

import (
	"sync"
	"time"
)

// Debouncer runs the most recently triggered function once no new trigger arrived for wait.
type Debouncer struct {
	mu    sync.Mutex
	wait  time.Duration
	timer *time.Timer
}

/**
  Returns a debouncer
*/
func New(wait time.Duration) *Debouncer {
	return &Debouncer{wait: wait}
}

// Trigger (re)starts the countdown for f, dropping any pending function.
func (d *Debouncer) Trigger(f func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, f)
}

// Stop drops the pending function. It reports whether one was pending.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer == nil {
		return false
	}
	pending := d.timer.Stop()
	d.timer = nil
	return pending
}
