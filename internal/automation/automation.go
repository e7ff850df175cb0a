// Package automation runs scripted and swept traces: a YAML scenario is a
// list of trace steps run in order, a sweep runs the same trace across a
// range of one parameter in parallel.
package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/contrastanim/internal/trace"
)

var (
	ErrNoSteps      = errors.New("automation: scenario has no steps")
	ErrUnknownParam = errors.New("automation: unknown sweep parameter")
)

// Scenario defines a scripted sequence of traces.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

type ScenarioStep struct {
	Name         string   `yaml:"name"`
	Duration     float64  `yaml:"duration_ms"`
	FrameRate    int      `yaml:"frame_rate"`
	Jitter       float64  `yaml:"jitter_ms"`
	Seed         int64    `yaml:"seed"`
	Speed        float64  `yaml:"speed"`
	InitialValue float64  `yaml:"initial_value"`
	Events       []string `yaml:"events"`
}

// LoadScenario loads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("automation: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, ErrNoSteps
	}
	for i, step := range sc.Steps {
		if _, err := step.Options(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return &sc, nil
}

// Options converts the step into trace options.
func (s ScenarioStep) Options() (trace.Options, error) {
	opts := trace.Options{
		Duration:     s.Duration,
		Jitter:       s.Jitter,
		Seed:         s.Seed,
		Speed:        s.Speed,
		InitialValue: s.InitialValue,
	}
	if opts.Duration <= 0 {
		opts.Duration = 5000
	}
	if s.FrameRate > 0 {
		opts.FrameInterval = 1000.0 / float64(s.FrameRate)
	}
	for _, raw := range s.Events {
		ev, err := trace.ParseEvent(raw)
		if err != nil {
			return trace.Options{}, err
		}
		opts.Events = append(opts.Events, ev)
	}
	return opts, nil
}

type StepResult struct {
	Name    string
	Options trace.Options
	Samples []trace.Sample
	Stats   trace.Stats
}

// RunScenario executes all steps in order.
func RunScenario(ctx context.Context, sc *Scenario, logger *slog.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	results := make([]StepResult, 0, len(sc.Steps))

	for i, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		opts, err := step.Options()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step %d", i+1)
		}
		samples := trace.Run(opts, logger)
		res := StepResult{Name: name, Options: opts, Samples: samples, Stats: trace.Summarize(samples)}
		results = append(results, res)

		logger.Info("automation: step finished", "step", i+1, "name", name, "steps", res.Stats.Steps, "flips", res.Stats.Flips)
	}

	return results, nil
}

// Sweep runs Base once per value of Param between Min and Max inclusive.
// Param is one of "speed", "jitter" or "frame_rate".
type Sweep struct {
	Param    string
	Min      float64
	Max      float64
	NumSteps int
	Base     trace.Options
}

type SweepResult struct {
	ParamValue float64
	Stats      trace.Stats
	Final      float64
}

// RunSweep executes a sweep with at most workers traces in flight.
// Results are in parameter order.
func RunSweep(ctx context.Context, sweep *Sweep, workers int, logger *slog.Logger) ([]SweepResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	n := sweep.NumSteps
	if n < 1 {
		n = 1
	}
	if _, err := apply(sweep.Base, sweep.Param, sweep.Min); err != nil {
		return nil, err
	}

	paramStep := 0.0
	if n > 1 {
		paramStep = (sweep.Max - sweep.Min) / float64(n-1)
	}

	results := make([]SweepResult, n)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < n; i++ {
		i := i
		paramVal := sweep.Min + float64(i)*paramStep
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			opts, err := apply(sweep.Base, sweep.Param, paramVal)
			if err != nil {
				return err
			}
			samples := trace.Run(opts, logger)
			res := SweepResult{ParamValue: paramVal, Stats: trace.Summarize(samples)}
			if len(samples) > 0 {
				res.Final = samples[len(samples)-1].Value
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	logger.Info("automation: sweep finished", "param", sweep.Param, "runs", n)
	return results, nil
}

func apply(opts trace.Options, param string, v float64) (trace.Options, error) {
	switch param {
	case "speed":
		opts.Speed = v
	case "jitter":
		opts.Jitter = v
	case "frame_rate":
		if v <= 0 {
			return opts, fmt.Errorf("automation: frame_rate must be positive, got %g", v)
		}
		opts.FrameInterval = 1000.0 / v
	default:
		return opts, fmt.Errorf("%w: %q (available: speed, jitter, frame_rate)", ErrUnknownParam, param)
	}
	return opts, nil
}
