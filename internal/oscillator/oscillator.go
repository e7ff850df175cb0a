package oscillator

import "math"

const (
	Min = -100.0
	Max = 100.0

	// ReferenceFrameMs is the frame duration that advances the value by
	// exactly one unit at 1x speed.
	ReferenceFrameMs = 16.0
)

type Direction int

const (
	Increasing Direction = iota
	Decreasing
)

func (d Direction) String() string {
	if d == Decreasing {
		return "decreasing"
	}
	return "increasing"
}

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	if d == Increasing {
		return Decreasing
	}
	return Increasing
}

type State struct {
	Value     float64
	Direction Direction
}

func Initial() State {
	return State{Value: 0, Direction: Increasing}
}

func (s State) IsValid() bool {
	return !math.IsNaN(s.Value) && s.Value >= Min && s.Value <= Max
}

// Step advances s by speed*elapsedMs/ReferenceFrameMs in its current
// direction. The value is clamped to [Min, Max] and the direction flips in
// the call that reaches a bound.
func Step(s State, elapsedMs, speed float64) State {
	delta := speed * elapsedMs / ReferenceFrameMs

	if s.Direction == Increasing {
		v := Clamp(s.Value + delta)
		if v == Max {
			return State{Value: Max, Direction: Decreasing}
		}
		return State{Value: v, Direction: Increasing}
	}

	v := Clamp(s.Value - delta)
	if v == Min {
		return State{Value: Min, Direction: Increasing}
	}
	return State{Value: v, Direction: Decreasing}
}

// Clamp bounds v to [Min, Max].
func Clamp(v float64) float64 {
	return math.Max(Min, math.Min(Max, v))
}

// Contrast maps an oscillator value to the rendering layer's contrast
// percentage, where 100 is neutral.
func Contrast(v float64) float64 {
	return v + 100
}
