package trace

import (
	"context"
	"log/slog"
	"time"

	"github.com/san-kum/contrastanim/internal/scheduler"
)

// Live runs the controller against a timer-backed frame source for
// opts.Duration of wall-clock time. FrameInterval and Jitter are ignored;
// the cadence comes from refreshRate and the Go timer. Events fire on their
// own timer so a resume is applied even while no frames are requested.
func Live(ctx context.Context, opts Options, refreshRate int, logger *slog.Logger) []Sample {
	if logger == nil {
		logger = slog.Default()
	}
	src := scheduler.NewTickerSource(refreshRate)
	defer src.Close()

	ctrl := newController(src, opts, logger)
	events := sortedEvents(opts.Events)

	deadline := time.NewTimer(millisToDuration(opts.Duration))
	defer deadline.Stop()

	var (
		evTimer *time.Timer
		evC     <-chan time.Time
	)
	arm := func() {
		if evTimer != nil {
			evTimer.Stop()
		}
		evC = nil
		if len(events) == 0 {
			return
		}
		wait := millisToDuration(events[0].At - src.Now())
		evTimer = time.NewTimer(max(wait, 0))
		evC = evTimer.C
	}
	applyDue := func(now float64) {
		for len(events) > 0 && events[0].At <= now {
			events[0].Apply(ctrl)
			events = events[1:]
		}
	}

	var samples []Sample
	ctrl.Start()
	applyDue(0)
	arm()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-deadline.C:
			break loop
		case <-evC:
			now := src.Now()
			applyDue(now)
			samples = append(samples, sample(ctrl, now, false))
			arm()
		case f := <-src.Frames():
			applyDue(f.Timestamp)
			stepped := ctrl.Tick(f)
			samples = append(samples, sample(ctrl, f.Timestamp, stepped))
		}
	}

	if evTimer != nil {
		evTimer.Stop()
	}
	ctrl.Teardown()
	logger.Debug("trace: live run finished", "samples", len(samples), "steps", ctrl.Steps())
	return samples
}

func millisToDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
