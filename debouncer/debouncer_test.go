package debouncer

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer(t *testing.T) {
	var counter int32
	debTester := func() {
		atomic.AddInt32(&counter, 1)
	}

	debounced := New(50 * time.Millisecond)

	debounced.Trigger(debTester)
	debounced.Trigger(debTester)
	debounced.Trigger(debTester)
	debounced.Trigger(debTester)

	time.Sleep(80 * time.Millisecond)
	if n := atomic.LoadInt32(&counter); n != 1 {
		t.Error("Debouncer did't work", n)
	}
}

func TestStop(t *testing.T) {
	var counter int32
	debounced := New(20 * time.Millisecond)
	if debounced.Stop() {
		t.Error("Stop on an idle debouncer reported a pending call")
	}

	debounced.Trigger(func() { atomic.AddInt32(&counter, 1) })
	if !debounced.Stop() {
		t.Error("Stop did not report the pending call")
	}
	time.Sleep(40 * time.Millisecond)
	if n := atomic.LoadInt32(&counter); n != 0 {
		t.Error("stopped function ran", n)
	}
}
