package sim

import (
	"math"
	"testing"
	"time"

	timing "github.com/classpick/classpick/pkg/timing"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSessionLifecycle(t *testing.T) {
	now := time.Unix(0, 0)

	Convey("Given a fresh session", t, func() {
		fired := 0
		s := NewSession(func() { fired++ }, now)

		Convey("Then it starts running with an ID", func() {
			So(s.State(), ShouldEqual, StateRunning)
			So(s.Active(), ShouldBeTrue)
			So(s.ID(), ShouldNotBeEmpty)
			So(s.StartedAt(), ShouldEqual, now)
		})

		Convey("When concluding and completing", func() {
			So(s.Conclude(), ShouldBeTrue)
			So(s.State(), ShouldEqual, StateConcluding)
			So(s.Complete(), ShouldBeTrue)

			Convey("Then the callback fired exactly once", func() {
				So(fired, ShouldEqual, 1)
				So(s.State(), ShouldEqual, StateDone)
			})

			Convey("And further transitions are no-ops", func() {
				So(s.Conclude(), ShouldBeFalse)
				So(s.Complete(), ShouldBeFalse)
				So(s.Cancel(), ShouldBeFalse)
				So(fired, ShouldEqual, 1)
			})
		})

		Convey("When completing straight from Running", func() {
			So(s.Complete(), ShouldBeTrue)
			So(fired, ShouldEqual, 1)
		})

		Convey("When cancelling", func() {
			fake := timing.NewFake(now)
			s.Track(fake.AfterFunc(time.Second, func() { fired += 100 }))

			So(s.Cancel(), ShouldBeTrue)

			Convey("Then tracked timers are stopped and the callback never fires", func() {
				fake.Advance(2 * time.Second)
				So(fired, ShouldEqual, 0)
				So(s.State(), ShouldEqual, StateCancelled)
				So(fake.PendingCount(), ShouldEqual, 0)
			})

			Convey("And Complete after Cancel is rejected", func() {
				So(s.Complete(), ShouldBeFalse)
				So(fired, ShouldEqual, 0)
			})
		})
	})
}

func TestStateString(t *testing.T) {
	Convey("Every state renders a stable name", t, func() {
		So(StateIdle.String(), ShouldEqual, "idle")
		So(StateRunning.String(), ShouldEqual, "running")
		So(StateConcluding.String(), ShouldEqual, "concluding")
		So(StateDone.String(), ShouldEqual, "done")
		So(StateCancelled.String(), ShouldEqual, "cancelled")
		So(State(42).String(), ShouldEqual, "unknown")
	})
}

func TestEasing(t *testing.T) {
	Convey("Easing curves are clamped, monotone and hit both endpoints", t, func() {
		for _, ease := range []func(float64) float64{EaseOutCubic, EaseInOutQuad} {
			So(ease(-1), ShouldEqual, 0)
			So(ease(0), ShouldEqual, 0)
			So(math.Abs(ease(1)-1), ShouldBeLessThan, 1e-9)
			So(ease(2), ShouldAlmostEqual, 1, 1e-9)

			prev := 0.0
			for x := 0.0; x <= 1.0; x += 0.01 {
				v := ease(x)
				So(v, ShouldBeGreaterThanOrEqualTo, prev)
				prev = v
			}
		}
	})
}
