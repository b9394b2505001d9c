// Package watchdog resets the process when the main loop stops feeding it.
package watchdog

import (
	"sync"
	"time"

	"github.com/aluedtke7/dmdanim/debouncer"
	"github.com/antigloss/go/logger"
)

type Watchdog struct {
	timeout time.Duration
	expire  func()
	deb     *debouncer.Debouncer

	mu      sync.Mutex
	stopped bool
	fired   bool
}

// New arms a watchdog that calls onExpire when Feed is not called within timeout.
func New(timeout time.Duration, onExpire func()) *Watchdog {
	w := &Watchdog{timeout: timeout, expire: onExpire, deb: debouncer.New(timeout)}
	w.Feed()
	return w
}

func (w *Watchdog) fire() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.fired = true
	w.mu.Unlock()
	logger.Error("watchdog: not fed within %v", w.timeout)
	w.expire()
}

// Feed restarts the countdown. It has no effect after Stop.
func (w *Watchdog) Feed() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	w.deb.Trigger(w.fire)
}

// Stop disarms the watchdog.
func (w *Watchdog) Stop() {
	w.mu.Lock()
	w.stopped = true
	w.mu.Unlock()
	w.deb.Stop()
}

// Fired reports whether the watchdog expired.
func (w *Watchdog) Fired() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fired
}
