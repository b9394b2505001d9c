package scan

import (
	"errors"
	"image"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/aluedtke7/dmdanim/display"
	"github.com/aluedtke7/dmdanim/matrix"
	"github.com/antigloss/go/logger"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "scan-test")
	if err != nil {
		panic(err)
	}
	_ = logger.Init(dir, 10, 2, 10, false)
	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

type fakeSink struct {
	mu     sync.Mutex
	frames int
	lit    []bool
	err    error
	closed bool
}

func (f *fakeSink) Refresh(frame image.Image) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames++
	r, _, _, _ := frame.At(0, 0).RGBA()
	f.lit = append(f.lit, r != 0)
	return f.err
}

func (f *fakeSink) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

func (f *fakeSink) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frames
}

func TestScanPushesFrames(t *testing.T) {
	p, _ := matrix.New(2, 1)
	sink := &fakeSink{}
	failing := &fakeSink{err: errors.New("bus error")}
	s := New(p, time.Hour, sink, failing)

	s.Scan()
	p.SetPixel(0, 0, display.Normal, true)
	s.Scan()

	if sink.frames != 2 || failing.frames != 2 {
		t.Fatalf("frames = %d, %d, want 2, 2", sink.frames, failing.frames)
	}
	if sink.lit[0] || !sink.lit[1] {
		t.Errorf("sink saw %v, want [false true]", sink.lit)
	}
	if s.Frames() != 2 {
		t.Errorf("Frames() = %d, want 2", s.Frames())
	}
}

func TestStartStop(t *testing.T) {
	p, _ := matrix.New(1, 1)
	sink := &fakeSink{}
	s := New(p, time.Millisecond, sink)
	s.Start()
	s.Start()

	deadline := time.Now().Add(2 * time.Second)
	for sink.count() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	s.Close()
	s.Stop()

	n := sink.count()
	if n < 3 {
		t.Fatalf("only %d frames scanned", n)
	}
	time.Sleep(10 * time.Millisecond)
	if sink.count() != n {
		t.Error("scanner kept running after Stop")
	}
	if !sink.closed {
		t.Error("Close did not close the sink")
	}
}

func TestScanWhileRunning(t *testing.T) {
	p, _ := matrix.New(1, 1)
	sink := &fakeSink{}
	s := New(p, time.Millisecond, sink)
	s.Start()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				s.Scan()
			}
		}()
	}
	wg.Wait()
	s.Stop()

	if s.Frames() < 100 {
		t.Errorf("Frames() = %d, want at least 100", s.Frames())
	}
	if uint64(sink.count()) != s.Frames() {
		t.Errorf("sink saw %d frames, scanner counted %d", sink.count(), s.Frames())
	}
}
