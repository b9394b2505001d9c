package watchdog

import (
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/antigloss/go/logger"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "watchdog-test")
	if err != nil {
		panic(err)
	}
	_ = logger.Init(dir, 10, 2, 10, false)
	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func TestExpires(t *testing.T) {
	var resets int32
	w := New(20*time.Millisecond, func() { atomic.AddInt32(&resets, 1) })
	time.Sleep(60 * time.Millisecond)
	if n := atomic.LoadInt32(&resets); n != 1 {
		t.Errorf("resets = %d, want 1", n)
	}
	if !w.Fired() {
		t.Error("Fired() = false after expiry")
	}
}

func TestFeedKeepsAlive(t *testing.T) {
	var resets int32
	w := New(40*time.Millisecond, func() { atomic.AddInt32(&resets, 1) })
	for i := 0; i < 10; i++ {
		time.Sleep(10 * time.Millisecond)
		w.Feed()
	}
	w.Stop()
	time.Sleep(60 * time.Millisecond)
	if n := atomic.LoadInt32(&resets); n != 0 {
		t.Errorf("resets = %d, want 0", n)
	}
	if w.Fired() {
		t.Error("Fired() = true for a fed watchdog")
	}
}

func TestFeedAfterStop(t *testing.T) {
	var resets int32
	w := New(10*time.Millisecond, func() { atomic.AddInt32(&resets, 1) })
	w.Stop()
	w.Feed()
	time.Sleep(30 * time.Millisecond)
	if n := atomic.LoadInt32(&resets); n != 0 {
		t.Errorf("resets = %d, want 0", n)
	}
}
