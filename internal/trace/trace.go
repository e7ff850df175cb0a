// Package trace runs the animation controller against a virtual clock and
// records the value after every frame.
//
// Frames arrive at a fixed refresh interval with optional random jitter,
// so a trace shows exactly what a display would have shown, independent of
// wall-clock timing. Scheduled events (pause, resume, speed changes, ...)
// are applied before the first frame at or after their time.
package trace

import (
	"log/slog"
	"math"
	"math/rand"
	"sort"

	"github.com/san-kum/contrastanim/internal/animation"
	"github.com/san-kum/contrastanim/internal/oscillator"
	"github.com/san-kum/contrastanim/internal/scheduler"
)

type Options struct {
	Duration      float64 // ms
	FrameInterval float64 // ms between frame callbacks
	Jitter        float64 // max extra ms added to each frame interval
	Seed          int64
	Speed         float64
	InitialValue  float64
	MinInterval   float64
	Events        []Event
}

type Sample struct {
	Time      float64
	Value     float64
	Contrast  float64
	Direction oscillator.Direction
	Phase     animation.Phase
	Stepped   bool
}

type Stats struct {
	Frames int
	Steps  int
	Flips  int
	Min    float64
	Max    float64
}

// Run starts the controller at t=0 and delivers frames until Duration.
func Run(opts Options, logger *slog.Logger) []Sample {
	if !(opts.FrameInterval > 0) {
		opts.FrameInterval = 1000.0 / 60
	}

	src := scheduler.NewManualSource()
	ctrl := newController(src, opts, logger)
	events := sortedEvents(opts.Events)

	if !(opts.Duration > 0) {
		opts.Duration = 0
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	var samples []Sample

	ctrl.Start()
	now := 0.0
	for now <= opts.Duration {
		for len(events) > 0 && events[0].At <= now {
			events[0].Apply(ctrl)
			events = events[1:]
		}

		stepped := false
		if f, ok := src.Fire(now); ok {
			stepped = ctrl.Tick(f)
		}
		samples = append(samples, sample(ctrl, now, stepped))

		now += opts.FrameInterval
		if opts.Jitter > 0 {
			now += rng.Float64() * opts.Jitter
		}
	}
	ctrl.Teardown()
	return samples
}

func newController(src scheduler.FrameSource, opts Options, logger *slog.Logger) *animation.Controller {
	if opts.Speed == 0 {
		opts.Speed = animation.DefaultSpeed
	}
	ctrl := animation.New(src, opts.MinInterval, logger)
	ctrl.SetSpeed(opts.Speed)
	ctrl.SetValue(opts.InitialValue)
	return ctrl
}

func sortedEvents(in []Event) []Event {
	events := append([]Event(nil), in...)
	sort.SliceStable(events, func(i, j int) bool { return events[i].At < events[j].At })
	return events
}

func sample(ctrl *animation.Controller, now float64, stepped bool) Sample {
	return Sample{
		Time:      now,
		Value:     ctrl.Value(),
		Contrast:  ctrl.Contrast(),
		Direction: ctrl.Direction(),
		Phase:     ctrl.Phase(),
		Stepped:   stepped,
	}
}

func Summarize(samples []Sample) Stats {
	if len(samples) == 0 {
		return Stats{}
	}
	st := Stats{Frames: len(samples), Min: math.Inf(1), Max: math.Inf(-1)}
	for i, s := range samples {
		if s.Stepped {
			st.Steps++
		}
		if i > 0 && s.Direction != samples[i-1].Direction {
			st.Flips++
		}
		st.Min = math.Min(st.Min, s.Value)
		st.Max = math.Max(st.Max, s.Value)
	}
	return st
}

// Values returns the value column, for plotting.
func Values(samples []Sample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Value
	}
	return out
}
