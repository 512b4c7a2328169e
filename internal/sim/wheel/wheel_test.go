package wheel_test

import (
	"math"
	"testing"
	"time"

	sim "github.com/classpick/classpick/internal/sim"
	wheel "github.com/classpick/classpick/internal/sim/wheel"
	timing "github.com/classpick/classpick/pkg/timing"
	. "github.com/smartystreets/goconvey/convey"
)

const angleTolerance = 1e-6

// restSegmentAngle returns the final rest angle reduced to [0,360).
func reduced(angle float64) float64 {
	m := math.Mod(angle, 360)
	if m < 0 {
		m += 360
	}
	return m
}

func TestWheelLandsOnWinner(t *testing.T) {
	participants := []string{"Ada", "Grace", "Edsger", "Barbara", "Donald"}

	Convey("Given a wheel over five participants", t, func() {
		Convey("Then every winner index solves to its segment center", func() {
			for winner := range participants {
				fake := timing.NewFake(time.Unix(0, 0))
				w := wheel.New(fake, wheel.WithDuration(2*time.Second), wheel.WithFullSpins(3))

				done := false
				err := w.Start(participants, winner, func() { done = true })
				So(err, ShouldBeNil)

				fake.Advance(3 * time.Second)
				So(done, ShouldBeTrue)

				segment := 360.0 / float64(len(participants))
				want := float64(winner)*segment + segment/2
				So(reduced(w.RestAngle()), ShouldAlmostEqual, want, angleTolerance)
			}
		})
	})

	Convey("Given accumulated rotation from prior spins", t, func() {
		fake := timing.NewFake(time.Unix(0, 0))
		w := wheel.New(fake, wheel.WithDuration(time.Second))
		participants := []string{"A", "B", "C"}

		Convey("Then repeated spins accumulate and still land correctly", func() {
			var lastRest float64
			for spin := 0; spin < 4; spin++ {
				winner := spin % len(participants)
				done := false
				So(w.Start(participants, winner, func() { done = true }), ShouldBeNil)
				fake.Advance(2 * time.Second)
				So(done, ShouldBeTrue)

				segment := 360.0 / float64(len(participants))
				want := float64(winner)*segment + segment/2
				So(reduced(w.RestAngle()), ShouldAlmostEqual, want, angleTolerance)

				// Forward-only rotation: the absolute angle must grow.
				So(w.RestAngle(), ShouldBeGreaterThan, lastRest)
				lastRest = w.RestAngle()
			}
		})
	})

	Convey("Given a spin that solves to the current angle", t, func() {
		fake := timing.NewFake(time.Unix(0, 0))
		w := wheel.New(fake, wheel.WithDuration(time.Second), wheel.WithFullSpins(2))
		participants := []string{"A", "B"}

		// First spin lands on A's segment center.
		So(w.Start(participants, 0, func() {}), ShouldBeNil)
		fake.Advance(2 * time.Second)
		before := w.RestAngle()

		Convey("Then drawing the same winner still performs a full extra turn", func() {
			So(w.Start(participants, 0, func() {}), ShouldBeNil)
			fake.Advance(2 * time.Second)

			// Two configured turns plus the degenerate-delta bump.
			So(w.RestAngle()-before, ShouldAlmostEqual, 3*360.0, angleTolerance)
		})
	})
}

func TestWheelLifecycle(t *testing.T) {
	participants := []string{"A", "B", "C"}

	Convey("Given a running spin", t, func() {
		fake := timing.NewFake(time.Unix(0, 0))
		w := wheel.New(fake, wheel.WithDuration(2*time.Second))

		done := 0
		So(w.Start(participants, 1, func() { done++ }), ShouldBeNil)

		Convey("Then a second start is rejected", func() {
			err := w.Start(participants, 0, func() {})
			So(err, ShouldEqual, sim.ErrActive)
		})

		Convey("Then mid-spin snapshots hide the winner", func() {
			fake.Advance(time.Second)
			snap, ok := w.Snapshot()
			So(ok, ShouldBeTrue)
			So(snap.State, ShouldEqual, "running")
			So(snap.Winner, ShouldBeEmpty)
			So(snap.Progress, ShouldBeBetween, 0, 1)
		})

		Convey("When the spin completes", func() {
			fake.Advance(3 * time.Second)

			Convey("Then the callback fired once and the winner is revealed", func() {
				So(done, ShouldEqual, 1)
				snap, ok := w.Snapshot()
				So(ok, ShouldBeTrue)
				So(snap.State, ShouldEqual, "done")
				So(snap.Winner, ShouldEqual, "B")

				Convey("And a new spin may start", func() {
					So(w.Start(participants, 2, func() {}), ShouldBeNil)
				})
			})
		})

		Convey("When the spin is cancelled mid-flight", func() {
			fake.Advance(500 * time.Millisecond)
			w.Cancel()
			fake.Advance(10 * time.Second)

			Convey("Then the callback never fires and nothing stays scheduled", func() {
				So(done, ShouldEqual, 0)
				So(fake.PendingCount(), ShouldEqual, 0)

				snap, ok := w.Snapshot()
				So(ok, ShouldBeTrue)
				So(snap.State, ShouldEqual, "cancelled")
			})
		})
	})

	Convey("Given invalid start arguments", t, func() {
		fake := timing.NewFake(time.Unix(0, 0))
		w := wheel.New(fake)

		Convey("Then empty participants are rejected", func() {
			So(w.Start(nil, 0, func() {}), ShouldEqual, sim.ErrNoParticipants)
		})

		Convey("Then an out-of-range winner is rejected", func() {
			So(w.Start(participants, 3, func() {}), ShouldEqual, sim.ErrBadWinner)
			So(w.Start(participants, -1, func() {}), ShouldEqual, sim.ErrBadWinner)
		})
	})
}
