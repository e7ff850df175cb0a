// Package oscillator provides the bounded scalar that drives the contrast effect.
//
// The oscillator moves a value between [Min] and [Max] at a rate proportional
// to elapsed time, reversing direction whenever a bound is reached:
//
//   - [State]: value plus direction of travel
//   - [Step]: pure state transition over an elapsed span
//   - [Clamp]: bound a manually supplied value
//
// # Example
//
//	s := oscillator.Initial()
//	s = oscillator.Step(s, 16, 1.0) // one reference frame at 1x
//
// Step has no side effects; callers own the State and pass it by value.
package oscillator
