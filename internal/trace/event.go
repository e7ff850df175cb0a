package trace

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/contrastanim/internal/animation"
)

type Action string

const (
	ActionStart  Action = "start"
	ActionStop   Action = "stop"
	ActionPause  Action = "pause"
	ActionResume Action = "resume"
	ActionSpeed  Action = "speed"
	ActionValue  Action = "value"
)

// Event is an intent applied to the controller at time At (ms).
type Event struct {
	At     float64
	Action Action
	Arg    float64
}

func (e Event) Apply(c *animation.Controller) {
	switch e.Action {
	case ActionStart:
		c.Start()
	case ActionStop:
		c.Stop()
	case ActionPause:
		c.Pause()
	case ActionResume:
		c.Resume()
	case ActionSpeed:
		c.SetSpeed(e.Arg)
	case ActionValue:
		c.SetValue(e.Arg)
	}
}

// ParseEvent parses "action@ms" or "action=arg@ms", e.g. "pause@1500" or
// "speed=2.5@3000".
func ParseEvent(s string) (Event, error) {
	expr, at, ok := strings.Cut(s, "@")
	if !ok {
		return Event{}, fmt.Errorf("trace: event %q: missing @time", s)
	}
	t, err := strconv.ParseFloat(at, 64)
	if err != nil || t < 0 {
		return Event{}, fmt.Errorf("trace: event %q: bad time %q", s, at)
	}

	name, arg, hasArg := strings.Cut(expr, "=")
	ev := Event{At: t, Action: Action(name)}
	switch ev.Action {
	case ActionStart, ActionStop, ActionPause, ActionResume:
		if hasArg {
			return Event{}, fmt.Errorf("trace: event %q: %s takes no argument", s, name)
		}
	case ActionSpeed, ActionValue:
		if !hasArg {
			return Event{}, fmt.Errorf("trace: event %q: %s needs =value", s, name)
		}
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return Event{}, fmt.Errorf("trace: event %q: %w", s, err)
		}
		ev.Arg = v
	default:
		return Event{}, fmt.Errorf("trace: event %q: unknown action %q", s, name)
	}
	return ev, nil
}

// String formats e in the form ParseEvent accepts.
func (e Event) String() string {
	at := strconv.FormatFloat(e.At, 'f', -1, 64)
	switch e.Action {
	case ActionSpeed, ActionValue:
		return fmt.Sprintf("%s=%s@%s", e.Action, strconv.FormatFloat(e.Arg, 'f', -1, 64), at)
	}
	return fmt.Sprintf("%s@%s", e.Action, at)
}
