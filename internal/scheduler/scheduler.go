// Package scheduler drives per-frame updates from a FrameSource.
//
// A Scheduler asks its source for one frame at a time. Every delivered frame
// carries the ID of the request that produced it; frames that do not match
// the outstanding request are stale and ignored, so a Deactivate takes
// effect even if the source already fired.
package scheduler

// DefaultMinInterval is the smallest span, in milliseconds, between two
// applied steps.
const DefaultMinInterval = 16.0

// Frame is one frame callback. Timestamp is in milliseconds on a monotonic
// clock.
type Frame struct {
	ID        uint64
	Timestamp float64
}

// FrameSource delivers frames for requested IDs back to the scheduler's
// owner. A cancelled request must not be delivered again, but a delivery
// that races the cancel is tolerated.
type FrameSource interface {
	RequestFrame(id uint64)
	CancelFrame(id uint64)
}

type Scheduler struct {
	src         FrameSource
	minInterval float64

	active  bool
	pending uint64
	nextID  uint64

	last    float64
	hasLast bool
}

func New(src FrameSource, minInterval float64) *Scheduler {
	if minInterval <= 0 {
		minInterval = DefaultMinInterval
	}
	return &Scheduler{src: src, minInterval: minInterval}
}

func (s *Scheduler) Active() bool        { return s.active }
func (s *Scheduler) MinInterval() float64 { return s.minInterval }

// LastTick reports the timestamp of the last applied step, or of the
// baseline frame after activation. ok is false while no baseline exists.
func (s *Scheduler) LastTick() (ts float64, ok bool) {
	return s.last, s.hasLast
}

// Activate starts ticking. The next frame only records a baseline. Calling
// Activate while active re-arms the request and drops the baseline.
func (s *Scheduler) Activate() {
	s.cancel()
	s.active = true
	s.hasLast = false
	s.request()
}

// Deactivate cancels the outstanding request. No frame delivered afterwards
// produces a step.
func (s *Scheduler) Deactivate() {
	if !s.active {
		return
	}
	s.cancel()
	s.active = false
	s.hasLast = false
}

// Tick processes a delivered frame. step reports whether the caller should
// advance its state by elapsedMs, the full span since the last applied step.
func (s *Scheduler) Tick(f Frame) (elapsedMs float64, step bool) {
	if !s.active || f.ID == 0 || f.ID != s.pending {
		return 0, false
	}
	s.pending = 0

	if !s.hasLast {
		s.last = f.Timestamp
		s.hasLast = true
		s.request()
		return 0, false
	}

	elapsed := f.Timestamp - s.last
	if elapsed < s.minInterval {
		s.request()
		return 0, false
	}

	s.last = f.Timestamp
	s.request()
	return elapsed, true
}

// Pending returns the ID of the outstanding request, or 0.
func (s *Scheduler) Pending() uint64 { return s.pending }

func (s *Scheduler) request() {
	if s.src == nil {
		return
	}
	s.nextID++
	s.pending = s.nextID
	s.src.RequestFrame(s.pending)
}

func (s *Scheduler) cancel() {
	if s.pending == 0 {
		return
	}
	if s.src != nil {
		s.src.CancelFrame(s.pending)
	}
	s.pending = 0
}
