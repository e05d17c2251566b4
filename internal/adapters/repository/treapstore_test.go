package repository_test

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/carebridge/carebridge/internal/adapters/repository"
	model "github.com/carebridge/carebridge/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func mkEvent(t *testing.T, id, date, tod string) model.CalendarEvent {
	t.Helper()
	d, err := model.ParseDate(date)
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	tm, err := model.ParseTimeOfDay(tod)
	if err != nil {
		t.Fatalf("parse time: %v", err)
	}
	ev, err := model.NewEvent(id, "event "+id, d, tm, "", "")
	if err != nil {
		t.Fatalf("new event: %v", err)
	}
	return ev
}

func TestTreapStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty store", t, func() {
		s := repository.NewTreapStore(ctx)

		Convey("When adding events out of chronological order", func() {
			So(s.Add(ctx, mkEvent(t, "c", "2025-05-25", "10:00")), ShouldBeNil)
			So(s.Add(ctx, mkEvent(t, "a", "2025-05-18", "09:45")), ShouldBeNil)
			So(s.Add(ctx, mkEvent(t, "b", "2025-05-18", "08:00")), ShouldBeNil)

			Convey("Then All returns them chronologically", func() {
				all := s.All(ctx)
				So(all, ShouldHaveLength, 3)
				So(all[0].ID, ShouldEqual, "b")
				So(all[1].ID, ShouldEqual, "a")
				So(all[2].ID, ShouldEqual, "c")
			})

			Convey("Then a day bucket is time-sorted and day-scoped", func() {
				day, _ := model.ParseDate("2025-05-18")
				got := s.EventsOn(ctx, day)
				So(got, ShouldHaveLength, 2)
				So(got[0].Time.String(), ShouldEqual, "08:00")
				So(got[1].Time.String(), ShouldEqual, "09:45")
			})

			Convey("Then Upcoming excludes the reference day and honors the cap", func() {
				ref, _ := model.ParseDate("2025-05-18")
				got := s.Upcoming(ctx, ref, 1)
				So(got, ShouldHaveLength, 1)
				So(got[0].ID, ShouldEqual, "c")

				uncapped := s.Upcoming(ctx, ref, 0)
				So(uncapped, ShouldHaveLength, 1)
			})
		})

		Convey("When adding a duplicate id", func() {
			So(s.Add(ctx, mkEvent(t, "a", "2025-05-18", "08:00")), ShouldBeNil)
			err := s.Add(ctx, mkEvent(t, "a", "2025-05-19", "09:00"))

			Convey("Then the second add is rejected and state is unchanged", func() {
				So(err, ShouldWrap, repository.ErrDuplicateID)
				So(s.Len(ctx), ShouldEqual, 1)
				got, gerr := s.Get(ctx, "a")
				So(gerr, ShouldBeNil)
				So(got.Date.String(), ShouldEqual, "2025-05-18")
			})
		})

		Convey("When round-tripping an event", func() {
			want := mkEvent(t, "rt", "2025-07-01", "14:30")
			want.Description = "bring insurance card"
			want.Color = "amber"
			So(s.Add(ctx, want), ShouldBeNil)

			Convey("Then every field survives unchanged", func() {
				got, err := s.Get(ctx, "rt")
				So(err, ShouldBeNil)
				So(got, ShouldResemble, want)

				all := s.All(ctx)
				So(all, ShouldContain, want)
			})
		})

		Convey("When removing events", func() {
			So(s.Add(ctx, mkEvent(t, "a", "2025-05-18", "08:00")), ShouldBeNil)
			So(s.Add(ctx, mkEvent(t, "b", "2025-05-18", "09:00")), ShouldBeNil)

			removed, err := s.Remove(ctx, "a")
			So(err, ShouldBeNil)
			So(removed.ID, ShouldEqual, "a")
			So(s.Len(ctx), ShouldEqual, 1)

			Convey("Then unknown ids report not found", func() {
				_, err := s.Remove(ctx, "a")
				So(err, ShouldWrap, repository.ErrNotFound)
				_, err = s.Get(ctx, "a")
				So(err, ShouldWrap, repository.ErrNotFound)
			})
		})

		Convey("When many random events are inserted", func() {
			rng := rand.New(rand.NewSource(7))
			for i := 0; i < 500; i++ {
				date := fmt.Sprintf("2025-%02d-%02d", 1+rng.Intn(12), 1+rng.Intn(28))
				tod := fmt.Sprintf("%02d:%02d", rng.Intn(24), rng.Intn(60))
				So(s.Add(ctx, mkEvent(t, fmt.Sprintf("ev-%d", i), date, tod)), ShouldBeNil)
			}

			Convey("Then All is totally ordered", func() {
				all := s.All(ctx)
				So(all, ShouldHaveLength, 500)
				for i := 1; i < len(all); i++ {
					So(all[i-1].Less(all[i]), ShouldBeTrue)
				}
			})
		})

		Convey("When readers and writers run concurrently", func() {
			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(2)
				go func(n int) {
					defer wg.Done()
					_ = s.Add(ctx, mkEvent(t, fmt.Sprintf("w-%d", n), "2025-05-18", "08:00"))
				}(i)
				go func() {
					defer wg.Done()
					_ = s.All(ctx)
				}()
			}
			wg.Wait()

			So(s.Len(ctx), ShouldEqual, 20)
		})
	})
}
