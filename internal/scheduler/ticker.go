package scheduler

import (
	"sync"
	"time"
)

// TickerSource emulates a display refresh: each request fires once after
// the refresh interval and the frame is sent on Frames.
type TickerSource struct {
	interval time.Duration
	start    time.Time
	frames   chan Frame
	done     chan struct{}

	mu     sync.Mutex
	timers map[uint64]*time.Timer
	closed bool
}

func NewTickerSource(refreshRate int) *TickerSource {
	if refreshRate <= 0 {
		refreshRate = 60
	}
	return &TickerSource{
		interval: time.Second / time.Duration(refreshRate),
		start:    time.Now(),
		frames:   make(chan Frame, 1),
		done:     make(chan struct{}),
		timers:   make(map[uint64]*time.Timer),
	}
}

func (t *TickerSource) Frames() <-chan Frame { return t.frames }

// Now returns milliseconds since the source was created.
func (t *TickerSource) Now() float64 {
	return Millis(time.Since(t.start))
}

func (t *TickerSource) RequestFrame(id uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.timers[id] = time.AfterFunc(t.interval, func() {
		t.mu.Lock()
		delete(t.timers, id)
		t.mu.Unlock()

		select {
		case t.frames <- Frame{ID: id, Timestamp: t.Now()}:
		case <-t.done:
		}
	})
}

func (t *TickerSource) CancelFrame(id uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if tm, ok := t.timers[id]; ok {
		tm.Stop()
		delete(t.timers, id)
	}
}

// Close stops all outstanding timers and unblocks pending deliveries.
func (t *TickerSource) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	for id, tm := range t.timers {
		tm.Stop()
		delete(t.timers, id)
	}
	close(t.done)
}

// Millis converts a duration to fractional milliseconds.
func Millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
