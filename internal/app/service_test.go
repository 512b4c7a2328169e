package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	statestore "github.com/classpick/classpick/internal/adapters/statestore"
	service "github.com/classpick/classpick/internal/app"
	"github.com/classpick/classpick/internal/domain/model"
	"github.com/classpick/classpick/internal/domain/outcome"
	"github.com/classpick/classpick/internal/domain/pool"
	"github.com/classpick/classpick/internal/sim/cards"
	"github.com/classpick/classpick/internal/sim/wheel"
	"github.com/classpick/classpick/pkg/logger"
	"github.com/classpick/classpick/pkg/timing"
	. "github.com/smartystreets/goconvey/convey"
)

// cueRecorder captures cue order for assertions.
type cueRecorder struct {
	mu   sync.Mutex
	cues []service.Cue
}

func (c *cueRecorder) Play(_ context.Context, cue service.Cue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cues = append(c.cues, cue)
}

func (c *cueRecorder) all() []service.Cue {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]service.Cue(nil), c.cues...)
}

type fixture struct {
	svc   *service.Service
	fake  *timing.Fake
	store *statestore.Memory
	cues  *cueRecorder
}

func newFixture(t *testing.T, opts ...service.Option) *fixture {
	t.Helper()
	f := &fixture{
		fake:  timing.NewFake(time.Unix(0, 0)),
		store: statestore.NewMemory(),
		cues:  &cueRecorder{},
	}
	base := []service.Option{
		service.WithLogger(logger.Nop()),
		service.WithScheduler(f.fake),
		service.WithStateStore(f.store),
		service.WithCuePlayer(f.cues),
		service.WithRNG(pool.NewSeededRNG(1, 2)),
	}
	f.svc = service.New(append(base, opts...)...)
	return f
}

func TestDrawModes(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service with three names", t, func() {
		f := newFixture(t)
		So(f.svc.Start(ctx), ShouldBeNil)
		for _, n := range []string{"Ada", "Grace", "Edsger"} {
			So(f.svc.AddName(ctx, n), ShouldBeNil)
		}

		Convey("When drawing in single mode with no-repeat", func() {
			seen := map[string]bool{}
			for i := 0; i < 3; i++ {
				res, err := f.svc.RequestDraw(ctx)
				So(err, ShouldBeNil)
				So(res.Status, ShouldEqual, service.StatusDone)
				So(seen[res.Entry.Result], ShouldBeFalse)
				seen[res.Entry.Result] = true
			}

			Convey("Then three draws exhaust the pool without repeats", func() {
				So(len(seen), ShouldEqual, 3)
			})

			Convey("And the fourth draw reports exhaustion then recovers", func() {
				_, err := f.svc.RequestDraw(ctx)
				So(errors.Is(err, pool.ErrExhausted), ShouldBeTrue)

				res, err := f.svc.RequestDraw(ctx)
				So(err, ShouldBeNil)
				So(res.Entry.Result, ShouldBeIn, "Ada", "Grace", "Edsger")
			})

			Convey("And history lists newest first", func() {
				hist := f.svc.History(ctx)
				So(len(hist), ShouldEqual, 3)
				So(seen[hist[0].Result], ShouldBeTrue)
			})
		})

		Convey("When drawing in paired mode without tasks", func() {
			settings := f.svc.Settings(ctx)
			settings.Mode = model.ModePaired
			So(f.svc.UpdateSettings(ctx, settings), ShouldBeNil)

			_, err := f.svc.RequestDraw(ctx)

			Convey("Then the draw fails before consuming a name", func() {
				So(errors.Is(err, outcome.ErrNoTasks), ShouldBeTrue)

				settings.Mode = model.ModeSingle
				So(f.svc.UpdateSettings(ctx, settings), ShouldBeNil)
				for i := 0; i < 3; i++ {
					_, err := f.svc.RequestDraw(ctx)
					So(err, ShouldBeNil)
				}
			})
		})

		Convey("When drawing in paired mode with two tasks", func() {
			So(f.svc.AddTask(ctx, "solve"), ShouldBeNil)
			So(f.svc.AddTask(ctx, "present"), ShouldBeNil)

			settings := f.svc.Settings(ctx)
			settings.Mode = model.ModePaired
			So(f.svc.UpdateSettings(ctx, settings), ShouldBeNil)

			Convey("Then the task pool refills mid-call and never errors", func() {
				for i := 0; i < 3; i++ {
					res, err := f.svc.RequestDraw(ctx)
					So(err, ShouldBeNil)
					So(res.Entry.Result, ShouldContainSubstring, " → ")
				}
			})
		})

		Convey("When drawing in groups mode", func() {
			settings := f.svc.Settings(ctx)
			settings.Mode = model.ModeGroups
			settings.GroupCount = 2
			So(f.svc.UpdateSettings(ctx, settings), ShouldBeNil)

			res, err := f.svc.RequestDraw(ctx)
			So(err, ShouldBeNil)

			Convey("Then every name lands in exactly one group", func() {
				So(len(res.Entry.Groups), ShouldEqual, 2)
				total := 0
				for _, g := range res.Entry.Groups {
					total += len(g)
				}
				So(total, ShouldEqual, 3)
			})
		})
	})

	Convey("Given a started service with no names", t, func() {
		f := newFixture(t)
		So(f.svc.Start(ctx), ShouldBeNil)

		_, err := f.svc.RequestDraw(ctx)
		So(errors.Is(err, pool.ErrEmptyList), ShouldBeTrue)
	})

	Convey("Given a service that was never started", t, func() {
		f := newFixture(t)
		_, err := f.svc.RequestDraw(ctx)
		So(err, ShouldEqual, service.ErrNotStarted)
	})
}

func TestInteractiveDraw(t *testing.T) {
	ctx := context.Background()

	Convey("Given interactive mode on the wheel", t, func() {
		f := newFixture(t,
			service.WithWheelOptions(wheel.WithDuration(time.Second)),
			service.WithDefaultSettings(service.Settings{
				Mode:          model.ModeInteractive,
				Visual:        model.VisualWheel,
				NoRepeatNames: true,
				NoRepeatTasks: true,
				GroupCount:    2,
			}),
		)
		So(f.svc.Start(ctx), ShouldBeNil)
		for _, n := range []string{"Ada", "Grace", "Edsger"} {
			So(f.svc.AddName(ctx, n), ShouldBeNil)
		}

		res, err := f.svc.RequestDraw(ctx)
		So(err, ShouldBeNil)

		Convey("Then the draw starts animating without leaking the winner", func() {
			So(res.Status, ShouldEqual, service.StatusAnimating)
			So(res.Entry, ShouldBeNil)
			So(res.SessionID, ShouldNotBeEmpty)
			So(res.Visual, ShouldEqual, model.VisualWheel)
			So(f.svc.History(ctx), ShouldBeEmpty)

			view, err := f.svc.SessionView(ctx)
			So(err, ShouldBeNil)
			So(view.(wheel.Snapshot).Winner, ShouldBeEmpty)
		})

		Convey("Then a concurrent draw is rejected", func() {
			_, err := f.svc.RequestDraw(ctx)
			So(err, ShouldEqual, service.ErrDrawInProgress)
		})

		Convey("When the animation completes", func() {
			f.fake.Advance(2 * time.Second)

			Convey("Then the outcome is finalized exactly once", func() {
				hist := f.svc.History(ctx)
				So(len(hist), ShouldEqual, 1)
				So(hist[0].Mode, ShouldEqual, model.ModeInteractive)

				view, err := f.svc.SessionView(ctx)
				So(err, ShouldBeNil)
				So(view.(wheel.Snapshot).Winner, ShouldEqual, hist[0].Result)
				So(f.cues.all(), ShouldContain, service.CueDrawCommit)

				Convey("And a new draw may start", func() {
					_, err := f.svc.RequestDraw(ctx)
					So(err, ShouldBeNil)
				})
			})
		})

		Convey("When the session is cancelled", func() {
			So(f.svc.CancelSession(ctx), ShouldBeNil)
			f.fake.Advance(time.Minute)

			Convey("Then nothing is recorded and the slot frees up", func() {
				So(f.svc.History(ctx), ShouldBeEmpty)
				So(f.svc.CancelSession(ctx), ShouldEqual, service.ErrNoSession)

				_, err := f.svc.RequestDraw(ctx)
				So(err, ShouldBeNil)
			})
		})

		Convey("Then settings cannot change mid-session", func() {
			settings := f.svc.Settings(ctx)
			settings.Visual = model.VisualCards
			So(f.svc.UpdateSettings(ctx, settings), ShouldEqual, service.ErrDrawInProgress)
		})
	})

	Convey("Given interactive mode on the cards", t, func() {
		f := newFixture(t,
			service.WithCardOptions(
				cards.WithShuffleDuration(100*time.Millisecond),
				cards.WithPickDuration(100*time.Millisecond),
				cards.WithRevealHold(100*time.Millisecond),
			),
			service.WithDefaultSettings(service.Settings{
				Mode:          model.ModeInteractive,
				Visual:        model.VisualCards,
				NoRepeatNames: true,
				NoRepeatTasks: true,
				GroupCount:    2,
			}),
		)
		So(f.svc.Start(ctx), ShouldBeNil)
		So(f.svc.AddName(ctx, "Ada"), ShouldBeNil)
		So(f.svc.AddName(ctx, "Grace"), ShouldBeNil)

		_, err := f.svc.RequestDraw(ctx)
		So(err, ShouldBeNil)
		f.fake.Advance(time.Second)

		Convey("Then the reveal cue precedes the commit cue", func() {
			cues := f.cues.all()
			So(cues, ShouldResemble, []service.Cue{service.CueCardReveal, service.CueDrawCommit})
			So(len(f.svc.History(ctx)), ShouldEqual, 1)
		})
	})
}

func TestRosterAndSettings(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service", t, func() {
		f := newFixture(t)
		So(f.svc.Start(ctx), ShouldBeNil)

		Convey("Then roster mutations enforce uniqueness", func() {
			So(f.svc.AddName(ctx, "Ada"), ShouldBeNil)
			So(f.svc.AddName(ctx, "Ada"), ShouldNotBeNil)
			So(f.svc.AddName(ctx, "  "), ShouldNotBeNil)
			So(f.svc.RemoveName(ctx, "Ada"), ShouldBeNil)
			So(f.svc.RemoveName(ctx, "Ada"), ShouldNotBeNil)
		})

		Convey("Then a name added after draws is immediately drawable", func() {
			So(f.svc.AddName(ctx, "Ada"), ShouldBeNil)
			_, err := f.svc.RequestDraw(ctx)
			So(err, ShouldBeNil)

			So(f.svc.AddName(ctx, "Grace"), ShouldBeNil)
			res, err := f.svc.RequestDraw(ctx)
			So(err, ShouldBeNil)
			So(res.Entry.Result, ShouldEqual, "Grace")
		})

		Convey("Then pool resets are available on demand", func() {
			So(f.svc.AddName(ctx, "Ada"), ShouldBeNil)
			_, err := f.svc.RequestDraw(ctx)
			So(err, ShouldBeNil)

			So(f.svc.ResetPool(ctx, "names"), ShouldBeNil)
			_, err = f.svc.RequestDraw(ctx)
			So(err, ShouldBeNil)

			So(f.svc.ResetPool(ctx, "bogus"), ShouldNotBeNil)
		})

		Convey("Then invalid settings are rejected", func() {
			So(f.svc.UpdateSettings(ctx, service.Settings{Mode: "raffle"}), ShouldNotBeNil)
			So(f.svc.UpdateSettings(ctx, service.Settings{
				Mode: model.ModeSingle, Visual: model.VisualWheel, GroupCount: 1,
			}), ShouldNotBeNil)
		})

		Convey("Then history can be cleared", func() {
			So(f.svc.AddName(ctx, "Ada"), ShouldBeNil)
			_, err := f.svc.RequestDraw(ctx)
			So(err, ShouldBeNil)
			So(len(f.svc.History(ctx)), ShouldEqual, 1)

			So(f.svc.ClearHistory(ctx), ShouldBeNil)
			So(f.svc.History(ctx), ShouldBeEmpty)
		})

		Convey("Then stats expose the moving parts", func() {
			So(f.svc.AddName(ctx, "Ada"), ShouldBeNil)
			So(f.svc.AddTask(ctx, "solve"), ShouldBeNil)

			stats := f.svc.GetStats()
			So(stats["started"], ShouldBeTrue)
			So(stats["names"], ShouldEqual, 1)
			So(stats["tasks"], ShouldEqual, 1)
			So(stats["sessionActive"], ShouldBeFalse)
		})
	})
}

func TestPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service that drew and stopped", t, func() {
		f := newFixture(t)
		So(f.svc.Start(ctx), ShouldBeNil)
		So(f.svc.AddName(ctx, "Ada"), ShouldBeNil)
		So(f.svc.AddName(ctx, "Grace"), ShouldBeNil)
		So(f.svc.AddTask(ctx, "solve"), ShouldBeNil)

		res, err := f.svc.RequestDraw(ctx)
		So(err, ShouldBeNil)
		first := res.Entry.Result

		settings := f.svc.Settings(ctx)
		settings.Visual = model.VisualRaceDuck
		So(f.svc.UpdateSettings(ctx, settings), ShouldBeNil)
		f.svc.Stop()

		Convey("When a new service starts on the same store", func() {
			svc := service.New(
				service.WithLogger(logger.Nop()),
				service.WithScheduler(f.fake),
				service.WithStateStore(f.store),
				service.WithRNG(pool.NewSeededRNG(1, 2)),
			)
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then rosters, settings and history survive", func() {
				So(svc.Names(ctx), ShouldResemble, []string{"Ada", "Grace"})
				So(svc.Tasks(ctx), ShouldResemble, []string{"solve"})
				So(svc.Settings(ctx).Visual, ShouldEqual, model.VisualRaceDuck)

				hist := svc.History(ctx)
				So(len(hist), ShouldEqual, 1)
				So(hist[0].Result, ShouldEqual, first)
			})

			Convey("Then the no-repeat pool resumes where it left off", func() {
				res, err := svc.RequestDraw(ctx)
				So(err, ShouldBeNil)
				So(res.Entry.Result, ShouldNotEqual, first)
			})
		})
	})
}
