package animation

import (
	"io"
	"log/slog"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/contrastanim/internal/oscillator"
	"github.com/san-kum/contrastanim/internal/scheduler"
)

var _ = Describe("Controller", func() {
	var (
		src  *scheduler.ManualSource
		ctrl *Controller
		now  float64
	)

	// deliver fires the outstanding frame request at now+dt.
	deliver := func(dt float64) bool {
		now += dt
		f, ok := src.Fire(now)
		if !ok {
			return false
		}
		return ctrl.Tick(f)
	}

	BeforeEach(func() {
		src = scheduler.NewManualSource()
		ctrl = New(src, scheduler.DefaultMinInterval, slog.New(slog.NewTextHandler(io.Discard, nil)))
		now = 1000
	})

	It("starts stopped at zero, increasing, 1x", func() {
		Expect(ctrl.Phase()).To(Equal(Stopped))
		Expect(ctrl.Value()).To(BeZero())
		Expect(ctrl.Direction()).To(Equal(oscillator.Increasing))
		Expect(ctrl.Speed()).To(Equal(DefaultSpeed))
		Expect(ctrl.Contrast()).To(Equal(100.0))
		Expect(ctrl.Ticking()).To(BeFalse())
	})

	Describe("Start", func() {
		It("uses the first frame as a baseline", func() {
			ctrl.Start()
			Expect(ctrl.Phase()).To(Equal(Running))
			Expect(deliver(0)).To(BeFalse())
			Expect(ctrl.Value()).To(BeZero())

			Expect(deliver(16)).To(BeTrue())
			Expect(ctrl.Value()).To(BeNumerically("~", 1, 1e-9))
			Expect(ctrl.Steps()).To(Equal(uint64(1)))
		})

		It("continues from a manually set value", func() {
			ctrl.SetValue(40)
			ctrl.Start()
			deliver(0)
			deliver(32)
			Expect(ctrl.Value()).To(BeNumerically("~", 42, 1e-9))
		})

		It("is ignored while already running", func() {
			ctrl.Start()
			deliver(0)
			deliver(16)
			ctrl.Start()
			Expect(deliver(16)).To(BeTrue())
			Expect(ctrl.Value()).To(BeNumerically("~", 2, 1e-9))
		})
	})

	Describe("Pause and Resume", func() {
		BeforeEach(func() {
			ctrl.Start()
			deliver(0)
			deliver(160)
		})

		It("freezes the value", func() {
			ctrl.Pause()
			frozen := ctrl.Value()
			Expect(ctrl.Phase()).To(Equal(Paused))
			Expect(deliver(500)).To(BeFalse())
			Expect(ctrl.Value()).To(Equal(frozen))
		})

		It("is idempotent", func() {
			ctrl.Pause()
			once := ctrl.Value()
			ctrl.Pause()
			Expect(ctrl.Value()).To(Equal(once))
			Expect(ctrl.Phase()).To(Equal(Paused))
		})

		It("drops a frame that was already in flight", func() {
			stale := scheduler.Frame{ID: src.Pending(), Timestamp: now + 100}
			ctrl.Pause()
			Expect(ctrl.Tick(stale)).To(BeFalse())
		})

		It("does not jump by the paused duration on resume", func() {
			ctrl.Pause()
			before := ctrl.Value()
			now += 60000
			ctrl.Resume()
			Expect(ctrl.Phase()).To(Equal(Running))
			Expect(deliver(0)).To(BeFalse())
			Expect(ctrl.Value()).To(Equal(before))
			Expect(deliver(16)).To(BeTrue())
			Expect(ctrl.Value()).To(BeNumerically("~", before+1, 1e-9))
		})

		It("toggles", func() {
			ctrl.TogglePause()
			Expect(ctrl.Phase()).To(Equal(Paused))
			ctrl.TogglePause()
			Expect(ctrl.Phase()).To(Equal(Running))
		})

		It("ignores resume while running", func() {
			ctrl.Resume()
			Expect(ctrl.Phase()).To(Equal(Running))
		})
	})

	Describe("Stop", func() {
		It("freezes the value without resetting it", func() {
			ctrl.Start()
			deliver(0)
			deliver(320)
			v := ctrl.Value()
			ctrl.Stop()
			Expect(ctrl.Phase()).To(Equal(Stopped))
			Expect(ctrl.Value()).To(Equal(v))
			Expect(ctrl.Ticking()).To(BeFalse())
			Expect(deliver(16)).To(BeFalse())
		})

		It("works from paused", func() {
			ctrl.Start()
			ctrl.Pause()
			ctrl.Stop()
			Expect(ctrl.Phase()).To(Equal(Stopped))
		})

		It("toggles with start", func() {
			ctrl.Toggle()
			Expect(ctrl.Phase()).To(Equal(Running))
			ctrl.Toggle()
			Expect(ctrl.Phase()).To(Equal(Stopped))
		})

		It("pause is ignored while stopped", func() {
			ctrl.Pause()
			Expect(ctrl.Phase()).To(Equal(Stopped))
		})
	})

	Describe("SetSpeed", func() {
		DescribeTable("clamps to range",
			func(in, want float64) {
				Expect(ctrl.SetSpeed(in)).To(Equal(want))
				Expect(ctrl.Speed()).To(Equal(want))
			},
			Entry("below", 0.0, MinSpeed),
			Entry("negative", -3.0, MinSpeed),
			Entry("above", 9.0, MaxSpeed),
			Entry("inside", 2.5, 2.5),
		)

		It("ignores NaN", func() {
			ctrl.SetSpeed(3)
			Expect(ctrl.SetSpeed(math.NaN())).To(Equal(3.0))
		})

		It("applies on the next tick without a discontinuity", func() {
			ctrl.Start()
			deliver(0)
			deliver(16)
			v := ctrl.Value()
			ctrl.SetSpeed(4)
			Expect(ctrl.Value()).To(Equal(v))
			deliver(16)
			Expect(ctrl.Value()).To(BeNumerically("~", v+4, 1e-9))
		})
	})

	Describe("SetValue", func() {
		It("clamps high values", func() {
			ctrl.SetValue(150)
			Expect(ctrl.Value()).To(Equal(100.0))
		})

		It("clamps low values", func() {
			ctrl.SetValue(-999)
			Expect(ctrl.Value()).To(Equal(-100.0))
		})

		It("keeps the direction", func() {
			ctrl.Start()
			deliver(0)
			deliver(16)
			ctrl.SetValue(-50)
			Expect(ctrl.Direction()).To(Equal(oscillator.Increasing))
			deliver(16)
			Expect(ctrl.Value()).To(BeNumerically("~", -49, 1e-9))
		})

		It("ignores NaN", func() {
			ctrl.SetValue(12)
			Expect(ctrl.SetValue(math.NaN())).To(Equal(12.0))
		})
	})

	It("reverses at the bounds and stays inside them", func() {
		ctrl.SetSpeed(MaxSpeed)
		ctrl.Start()
		deliver(0)

		flips := 0
		prev := ctrl.Direction()
		for i := 0; i < 500; i++ {
			deliver(17 + float64(i%5))
			Expect(ctrl.Value()).To(And(BeNumerically(">=", -100), BeNumerically("<=", 100)))
			if ctrl.Direction() != prev {
				flips++
				prev = ctrl.Direction()
			}
		}
		Expect(flips).To(BeNumerically(">=", 2))
	})

	It("resets to the initial state", func() {
		ctrl.Start()
		deliver(0)
		deliver(400)
		ctrl.Reset()
		Expect(ctrl.Phase()).To(Equal(Stopped))
		Expect(ctrl.Value()).To(BeZero())
		Expect(ctrl.Direction()).To(Equal(oscillator.Increasing))
	})

	It("tears down from any phase", func() {
		ctrl.Start()
		deliver(0)
		pending := scheduler.Frame{ID: src.Pending(), Timestamp: now + 20}
		ctrl.Teardown()
		ctrl.Teardown()
		Expect(ctrl.Tick(pending)).To(BeFalse())
		Expect(ctrl.Phase()).To(Equal(Stopped))
		Expect(src.Pending()).To(BeZero())
	})

	It("snapshots the current state", func() {
		ctrl.SetValue(25)
		ctrl.SetSpeed(2)
		s := ctrl.Snapshot()
		Expect(s.Phase).To(Equal(Stopped))
		Expect(s.Value).To(Equal(25.0))
		Expect(s.Contrast).To(Equal(125.0))
		Expect(s.Speed).To(Equal(2.0))
	})

	It("never animates without a frame source", func() {
		c := New(nil, 0, nil)
		c.Start()
		Expect(c.Phase()).To(Equal(Running))
		Expect(c.Tick(scheduler.Frame{ID: 1, Timestamp: 100})).To(BeFalse())
		Expect(c.Value()).To(BeZero())
	})
})
