package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewManager(t *testing.T) {
	Convey("Given a manager with default options", t, func() {
		m := NewManager()

		Convey("Then it should register its collectors", func() {
			So(m, ShouldNotBeNil)
			So(m.registry, ShouldNotBeNil)

			_, err := m.registry.Gather()
			So(err, ShouldBeNil)
		})
	})

	Convey("Given a manager with a custom namespace", t, func() {
		m := NewManager(WithNamespace("testing"))

		Convey("Then metrics carry the namespace", func() {
			m.drawsTotal.WithLabelValues("single").Inc()

			families, err := m.registry.Gather()
			So(err, ShouldBeNil)

			found := false
			for _, f := range families {
				if f.GetName() == "testing_draws_total" {
					found = true
				}
			}
			So(found, ShouldBeTrue)
		})
	})

	Convey("Given a manager with custom buckets", t, func() {
		m := NewManager(WithHistogramBuckets([]float64{10, 100, 1000}))

		Convey("Then it should observe without error", func() {
			m.sessionDuration.WithLabelValues("wheel").Observe(42)
			_, err := m.registry.Gather()
			So(err, ShouldBeNil)
		})
	})
}

func TestPackageHelpers(t *testing.T) {
	Convey("Given the default manager", t, func() {
		Convey("When recording draw activity", func() {
			before := testutil.ToFloat64(defaultManager.drawsTotal.WithLabelValues("single"))
			RecordDraw("single")
			RecordDrawError("empty_list")
			RecordPoolReset("names")
			UpdatePoolRemaining("names", 7)
			UpdateHistorySize(3)
			UpdateRosterSize("names", 12)

			Convey("Then the draw counter should advance", func() {
				after := testutil.ToFloat64(defaultManager.drawsTotal.WithLabelValues("single"))
				So(after, ShouldEqual, before+1)
				So(testutil.ToFloat64(defaultManager.historySize), ShouldEqual, 3)
			})
		})

		Convey("When recording session lifecycle", func() {
			RecordSessionStarted("wheel")

			Convey("Then the active gauge should be raised", func() {
				So(testutil.ToFloat64(defaultManager.activeSessions), ShouldEqual, 1)
			})

			Convey("And completion should reset it", func() {
				RecordSessionCompleted("wheel", 4200)
				So(testutil.ToFloat64(defaultManager.activeSessions), ShouldEqual, 0)
			})

			Convey("And cancellation should reset it too", func() {
				RecordSessionCancelled("race_duck")
				RecordSessionRejected()
				So(testutil.ToFloat64(defaultManager.activeSessions), ShouldEqual, 0)
			})
		})

		Convey("When recording persistence and HTTP activity", func() {
			RecordStateSave()
			RecordStateSaveError()
			RecordStateLoadError()
			RecordHTTPRequest("draw", "POST", "200")
			RecordHTTPRequestDuration("draw", "POST", 12.5)
			UpdateSystemMemoryUsage(1024)
			UpdateSystemGoroutineCount(8)

			Convey("Then the registry should gather without error", func() {
				_, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
			})
		})
	})
}
