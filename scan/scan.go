// Package scan refreshes display sinks from the panel at a fixed period.
package scan

import (
	"sync"
	"time"

	"github.com/aluedtke7/dmdanim/display"
	"github.com/aluedtke7/dmdanim/matrix"
	"github.com/antigloss/go/logger"
	"periph.io/x/periph/devices/ssd1306/image1bit"
)

type Scanner struct {
	panel  *matrix.Panel
	period time.Duration
	sinks  []display.Sink

	scanMu sync.Mutex // guards back, one scan at a time
	back   *image1bit.VerticalLSB

	mu     sync.Mutex
	ticker *time.Ticker
	done   chan struct{}
	wg     sync.WaitGroup
	frames uint64
}

func New(panel *matrix.Panel, period time.Duration, sinks ...display.Sink) *Scanner {
	return &Scanner{panel: panel, period: period, sinks: sinks}
}

// Start launches the scan goroutine. Calling it on a running scanner does nothing.
func (s *Scanner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ticker != nil {
		return
	}
	s.ticker = time.NewTicker(s.period)
	s.done = make(chan struct{})
	s.wg.Add(1)
	go s.run(s.ticker, s.done)
	logger.Trace("scan started, period %v, %d sinks", s.period, len(s.sinks))
}

func (s *Scanner) run(t *time.Ticker, done chan struct{}) {
	defer s.wg.Done()
	for {
		select {
		case <-done:
			return
		case <-t.C:
			s.Scan()
		}
	}
}

// Scan copies one frame and hands it to every sink. Sink errors are logged, not returned.
// It may be called while the scan goroutine runs.
func (s *Scanner) Scan() {
	s.scanMu.Lock()
	defer s.scanMu.Unlock()
	s.back = s.panel.Snapshot(s.back)
	for _, sink := range s.sinks {
		if err := sink.Refresh(s.back); err != nil {
			logger.Error("scan: refresh failed: %s", err)
		}
	}
	s.mu.Lock()
	s.frames++
	s.mu.Unlock()
}

func (s *Scanner) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Stop halts the ticker and waits for an in-flight scan to finish.
func (s *Scanner) Stop() {
	s.mu.Lock()
	if s.ticker == nil {
		s.mu.Unlock()
		return
	}
	s.ticker.Stop()
	close(s.done)
	s.ticker = nil
	s.mu.Unlock()
	s.wg.Wait()
	logger.Trace("scan stopped after %d frames", s.Frames())
}

// Close stops scanning and closes all sinks.
func (s *Scanner) Close() {
	s.Stop()
	for _, sink := range s.sinks {
		sink.Close()
	}
}
