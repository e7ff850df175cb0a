package scheduler

import (
	"testing"
	"time"
)

func fire(t *testing.T, src *ManualSource, s *Scheduler, ts float64) (float64, bool) {
	t.Helper()
	f, ok := src.Fire(ts)
	if !ok {
		t.Fatalf("no frame requested at t=%v", ts)
	}
	return s.Tick(f)
}

func TestFirstTickSetsBaseline(t *testing.T) {
	src := NewManualSource()
	s := New(src, DefaultMinInterval)
	s.Activate()

	if _, ok := s.LastTick(); ok {
		t.Fatal("baseline should be unset after activate")
	}
	if _, step := fire(t, src, s, 5000); step {
		t.Error("first tick must not step")
	}
	if ts, ok := s.LastTick(); !ok || ts != 5000 {
		t.Errorf("expected baseline 5000, got %v (set=%v)", ts, ok)
	}

	elapsed, step := fire(t, src, s, 5016)
	if !step || elapsed != 16 {
		t.Errorf("expected step of 16ms, got %v (step=%v)", elapsed, step)
	}
}

func TestThrottle(t *testing.T) {
	src := NewManualSource()
	s := New(src, DefaultMinInterval)
	s.Activate()
	fire(t, src, s, 100)

	steps := 0
	if _, step := fire(t, src, s, 105); step {
		steps++
	}
	if _, step := fire(t, src, s, 110); step {
		steps++
	}
	if steps != 0 {
		t.Fatalf("expected no steps below threshold, got %d", steps)
	}

	elapsed, step := fire(t, src, s, 118)
	if !step {
		t.Fatal("expected a step once 16ms have passed")
	}
	if elapsed != 18 {
		t.Errorf("expected elapsed measured from last applied step (18), got %v", elapsed)
	}
	if src.Pending() == 0 {
		t.Error("scheduler should keep requesting frames while active")
	}
}

func TestDeactivateDropsStaleFrame(t *testing.T) {
	src := NewManualSource()
	s := New(src, DefaultMinInterval)
	s.Activate()
	fire(t, src, s, 0)

	stale := Frame{ID: s.Pending(), Timestamp: 100}
	s.Deactivate()

	if src.Pending() != 0 {
		t.Error("deactivate should cancel the outstanding request")
	}
	if _, step := s.Tick(stale); step {
		t.Error("frame delivered after deactivate must not step")
	}
	if s.Active() {
		t.Error("scheduler should be inactive")
	}
}

func TestReactivateIgnoresOldFrames(t *testing.T) {
	src := NewManualSource()
	s := New(src, DefaultMinInterval)
	s.Activate()
	fire(t, src, s, 0)
	old := Frame{ID: s.Pending(), Timestamp: 10000}

	s.Deactivate()
	s.Activate()

	if _, step := s.Tick(old); step {
		t.Error("frame from previous activation must be ignored")
	}
	if _, step := fire(t, src, s, 20000); step {
		t.Error("first tick after reactivation must only set a baseline")
	}
	elapsed, step := fire(t, src, s, 20020)
	if !step || elapsed != 20 {
		t.Errorf("expected 20ms step after resume, got %v (step=%v)", elapsed, step)
	}
}

func TestActivateIdempotent(t *testing.T) {
	src := NewManualSource()
	s := New(src, DefaultMinInterval)
	s.Activate()
	first := s.Pending()
	s.Activate()

	if s.Pending() == first {
		t.Error("activate should re-arm with a fresh request")
	}
	if _, step := s.Tick(Frame{ID: first, Timestamp: 1}); step {
		t.Error("superseded request must be ignored")
	}
	if !s.Active() {
		t.Error("scheduler should stay active")
	}

	s.Deactivate()
	s.Deactivate()
	if s.Active() {
		t.Error("double deactivate should leave scheduler inactive")
	}
}

func TestNilSourceNeverTicks(t *testing.T) {
	s := New(nil, 0)
	s.Activate()
	if s.Pending() != 0 {
		t.Error("nil source should never have pending requests")
	}
	if _, step := s.Tick(Frame{ID: 1, Timestamp: 100}); step {
		t.Error("nil source should never step")
	}
	if s.MinInterval() != DefaultMinInterval {
		t.Errorf("expected default min interval, got %v", s.MinInterval())
	}
}

func TestTickerSourceDelivers(t *testing.T) {
	src := NewTickerSource(200)
	defer src.Close()

	s := New(src, 1)
	s.Activate()

	deadline := time.After(2 * time.Second)
	steps := 0
	for steps < 3 {
		select {
		case f := <-src.Frames():
			if _, step := s.Tick(f); step {
				steps++
			}
		case <-deadline:
			t.Fatalf("expected 3 steps, got %d", steps)
		}
	}
}

func TestTickerSourceCancel(t *testing.T) {
	src := NewTickerSource(100)
	defer src.Close()

	src.RequestFrame(7)
	src.CancelFrame(7)

	select {
	case f := <-src.Frames():
		t.Errorf("cancelled frame delivered: %+v", f)
	case <-time.After(50 * time.Millisecond):
	}
}
