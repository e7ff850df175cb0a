// Package animation owns the run/pause/stop lifecycle of the contrast
// oscillator.
//
// A Controller is the only mutator of the oscillator state and the run
// state. It is not safe for concurrent use; all calls must come from the
// goroutine that also delivers frames to Tick.
package animation

import (
	"log/slog"
	"math"

	"github.com/san-kum/contrastanim/internal/oscillator"
	"github.com/san-kum/contrastanim/internal/scheduler"
)

const (
	MinSpeed     = 0.1
	MaxSpeed     = 5.0
	DefaultSpeed = 1.0
)

type Phase int

const (
	Stopped Phase = iota
	Running
	Paused
)

func (p Phase) String() string {
	switch p {
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// Snapshot is a read-only copy of the controller state for renderers.
type Snapshot struct {
	Phase     Phase
	Value     float64
	Direction oscillator.Direction
	Speed     float64
	Contrast  float64
	Steps     uint64
}

type Controller struct {
	osc     oscillator.State
	speed   float64
	running bool
	paused  bool

	sched *scheduler.Scheduler
	steps uint64
	log   *slog.Logger
}

// New returns a stopped controller at value 0 and 1x speed. A nil source
// yields a controller that never animates.
func New(src scheduler.FrameSource, minInterval float64, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		osc:   oscillator.Initial(),
		speed: DefaultSpeed,
		sched: scheduler.New(src, minInterval),
		log:   logger,
	}
}

func (c *Controller) Phase() Phase {
	switch {
	case c.running && c.paused:
		return Paused
	case c.running:
		return Running
	default:
		return Stopped
	}
}

func (c *Controller) Value() float64                  { return c.osc.Value }
func (c *Controller) Direction() oscillator.Direction { return c.osc.Direction }
func (c *Controller) Speed() float64                  { return c.speed }
func (c *Controller) Steps() uint64                   { return c.steps }

// Contrast is the rendering-layer contrast percentage, 100 being neutral.
func (c *Controller) Contrast() float64 { return oscillator.Contrast(c.osc.Value) }

// Ticking reports whether the scheduler is waiting for frames.
func (c *Controller) Ticking() bool { return c.sched.Active() }

func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		Phase:     c.Phase(),
		Value:     c.osc.Value,
		Direction: c.osc.Direction,
		Speed:     c.speed,
		Contrast:  c.Contrast(),
		Steps:     c.steps,
	}
}

// Start moves Stopped to Running. The oscillator continues from its current
// value and direction.
func (c *Controller) Start() {
	if c.running {
		return
	}
	c.running = true
	c.paused = false
	c.sched.Activate()
	c.log.Debug("animation: started", "value", c.osc.Value, "direction", c.osc.Direction, "speed", c.speed)
}

// Pause freezes a running animation. Pausing twice is a no-op.
func (c *Controller) Pause() {
	if !c.running || c.paused {
		return
	}
	c.paused = true
	c.sched.Deactivate()
	c.log.Debug("animation: paused", "value", c.osc.Value)
}

// Resume restarts a paused animation. The first frame afterwards only sets a
// new baseline, so the paused duration never turns into a jump.
func (c *Controller) Resume() {
	if !c.running || !c.paused {
		return
	}
	c.paused = false
	c.sched.Activate()
	c.log.Debug("animation: resumed", "value", c.osc.Value)
}

// Stop halts the animation and leaves the value where it is.
func (c *Controller) Stop() {
	if !c.running {
		return
	}
	c.running = false
	c.paused = false
	c.sched.Deactivate()
	c.log.Debug("animation: stopped", "value", c.osc.Value)
}

// Toggle starts a stopped animation and stops any other.
func (c *Controller) Toggle() {
	if c.running {
		c.Stop()
		return
	}
	c.Start()
}

// TogglePause pauses a running animation and resumes a paused one.
func (c *Controller) TogglePause() {
	if c.paused {
		c.Resume()
		return
	}
	c.Pause()
}

// SetSpeed clamps v to [MinSpeed, MaxSpeed] and applies it from the next
// tick. NaN is ignored. The stored speed is returned.
func (c *Controller) SetSpeed(v float64) float64 {
	if math.IsNaN(v) {
		return c.speed
	}
	c.speed = math.Max(MinSpeed, math.Min(MaxSpeed, v))
	return c.speed
}

// SetValue overrides the oscillator value in any phase. The direction is
// kept, so the next step continues toward the bound it was heading for.
// NaN is ignored. The stored value is returned.
func (c *Controller) SetValue(v float64) float64 {
	if math.IsNaN(v) {
		return c.osc.Value
	}
	c.osc.Value = oscillator.Clamp(v)
	return c.osc.Value
}

// Tick handles one frame callback and reports whether the value moved.
func (c *Controller) Tick(f scheduler.Frame) bool {
	elapsed, ok := c.sched.Tick(f)
	if !ok {
		return false
	}
	prev := c.osc.Direction
	c.osc = oscillator.Step(c.osc, elapsed, c.speed)
	c.steps++
	if c.osc.Direction != prev {
		c.log.Debug("animation: bound reached", "value", c.osc.Value, "direction", c.osc.Direction)
	}
	return true
}

// Reset stops the animation and returns the oscillator to its initial state.
func (c *Controller) Reset() {
	c.Stop()
	c.osc = oscillator.Initial()
}

// Teardown releases the frame request regardless of phase. It is safe to
// call more than once.
func (c *Controller) Teardown() {
	c.sched.Deactivate()
	c.running = false
	c.paused = false
}
