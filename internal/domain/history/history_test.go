package history_test

import (
	"fmt"
	"testing"

	history "github.com/classpick/classpick/internal/domain/history"
	model "github.com/classpick/classpick/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func entry(i int) model.Entry {
	return model.Entry{ID: int64(i), Result: fmt.Sprintf("winner-%d", i), Mode: model.ModeSingle}
}

func TestLogAppend(t *testing.T) {
	Convey("Given an empty log", t, func() {
		l := history.New(50)

		Convey("When appending a single entry", func() {
			l = l.Append(entry(1))

			Convey("Then it is the newest and only entry", func() {
				So(l.Len(), ShouldEqual, 1)
				So(l.Entries()[0].ID, ShouldEqual, 1)
			})
		})

		Convey("When appending several entries", func() {
			for i := 1; i <= 5; i++ {
				l = l.Append(entry(i))
			}

			Convey("Then ordering is strictly most-recent-first", func() {
				entries := l.Entries()
				So(len(entries), ShouldEqual, 5)
				for i, e := range entries {
					So(e.ID, ShouldEqual, int64(5-i))
				}
			})
		})

		Convey("When appending 51 entries", func() {
			for i := 1; i <= 51; i++ {
				l = l.Append(entry(i))
			}

			Convey("Then the log holds 50, newest is the 51st, oldest is the 2nd", func() {
				entries := l.Entries()
				So(len(entries), ShouldEqual, 50)
				So(entries[0].ID, ShouldEqual, 51)
				So(entries[49].ID, ShouldEqual, 2)
			})
		})
	})

	Convey("Given a log with a small limit", t, func() {
		l := history.New(2)
		l = l.Append(entry(1))
		l = l.Append(entry(2))
		snapshot := l.Entries()
		l = l.Append(entry(3))

		Convey("Then earlier snapshots are unaffected by later appends", func() {
			So(len(snapshot), ShouldEqual, 2)
			So(snapshot[0].ID, ShouldEqual, 2)
			So(l.Entries()[0].ID, ShouldEqual, 3)
			So(l.Len(), ShouldEqual, 2)
		})
	})
}

func TestLogRestore(t *testing.T) {
	Convey("Given persisted entries exceeding the cap", t, func() {
		var entries []model.Entry
		for i := 60; i >= 1; i-- {
			entries = append(entries, entry(i))
		}

		Convey("When restoring with the default limit", func() {
			l := history.Restore(entries, 0)

			Convey("Then only the newest 50 survive", func() {
				So(l.Len(), ShouldEqual, 50)
				So(l.Limit(), ShouldEqual, history.DefaultLimit)
				So(l.Entries()[0].ID, ShouldEqual, 60)
				So(l.Entries()[49].ID, ShouldEqual, 11)
			})
		})
	})
}
