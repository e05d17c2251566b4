package model_test

import (
	"testing"
	"time"

	model "github.com/carebridge/carebridge/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestTimeOfDay(t *testing.T) {
	convey.Convey("Given HH:MM wire strings", t, func() {
		convey.Convey("When parsing a zero-padded time", func() {
			tod, err := model.ParseTimeOfDay("09:05")

			convey.Convey("Then it should parse to minutes since midnight", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(int(tod), convey.ShouldEqual, 9*60+5)
				convey.So(tod.String(), convey.ShouldEqual, "09:05")
			})
		})

		convey.Convey("When parsing an unpadded time", func() {
			tod, err := model.ParseTimeOfDay("9:5")
			padded, _ := model.ParseTimeOfDay("09:05")

			convey.Convey("Then it should equal its zero-padded form", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(tod, convey.ShouldEqual, padded)
			})
		})

		convey.Convey("When parsing an out-of-range hour", func() {
			_, err := model.ParseTimeOfDay("24:00")

			convey.Convey("Then it should report an invalid time", func() {
				convey.So(err, convey.ShouldWrap, model.ErrInvalidTime)
			})
		})

		convey.Convey("When parsing an out-of-range minute", func() {
			_, err := model.ParseTimeOfDay("10:60")

			convey.So(err, convey.ShouldWrap, model.ErrInvalidTime)
		})

		convey.Convey("When parsing garbage", func() {
			_, err := model.ParseTimeOfDay("noon")

			convey.So(err, convey.ShouldWrap, model.ErrInvalidTime)
		})

		convey.Convey("When comparing times", func() {
			early, _ := model.ParseTimeOfDay("08:00")
			late, _ := model.ParseTimeOfDay("14:30")

			convey.So(early < late, convey.ShouldBeTrue)
		})
	})
}

func TestDate(t *testing.T) {
	convey.Convey("Given civil dates", t, func() {
		convey.Convey("When parsing YYYY-MM-DD", func() {
			d, err := model.ParseDate("2025-05-18")

			convey.So(err, convey.ShouldBeNil)
			convey.So(d.Year, convey.ShouldEqual, 2025)
			convey.So(d.Month, convey.ShouldEqual, time.May)
			convey.So(d.Day, convey.ShouldEqual, 18)
			convey.So(d.String(), convey.ShouldEqual, "2025-05-18")
		})

		convey.Convey("When parsing an invalid date", func() {
			_, err := model.ParseDate("2025-13-40")

			convey.So(err, convey.ShouldWrap, model.ErrInvalidDate)
		})

		convey.Convey("When adding days across a month boundary", func() {
			d, _ := model.ParseDate("2025-05-30")
			next := d.AddDays(3)

			convey.So(next.String(), convey.ShouldEqual, "2025-06-02")
		})

		convey.Convey("When comparing dates", func() {
			a, _ := model.ParseDate("2025-05-18")
			b, _ := model.ParseDate("2025-05-19")

			convey.So(a.Before(b), convey.ShouldBeTrue)
			convey.So(b.After(a), convey.ShouldBeTrue)
			convey.So(a.Equal(a), convey.ShouldBeTrue)
		})

		convey.Convey("When truncating an instant", func() {
			instant := time.Date(2025, time.May, 18, 23, 59, 0, 0, time.UTC)

			convey.So(model.DateOf(instant).String(), convey.ShouldEqual, "2025-05-18")
		})
	})
}

func TestNewEvent(t *testing.T) {
	convey.Convey("Given event inputs", t, func() {
		date, _ := model.ParseDate("2025-05-18")
		tod, _ := model.ParseTimeOfDay("09:45")

		convey.Convey("When creating a valid event without id or color", func() {
			ev, err := model.NewEvent("", "Physio visit", date, tod, "bring referral", "")

			convey.So(err, convey.ShouldBeNil)
			convey.So(ev.ID, convey.ShouldNotBeEmpty)
			convey.So(ev.Color, convey.ShouldEqual, model.ColorDefault)
			convey.So(ev.Title, convey.ShouldEqual, "Physio visit")
		})

		convey.Convey("When creating with a blank title", func() {
			_, err := model.NewEvent("", "   ", date, tod, "", "")

			convey.So(err, convey.ShouldWrap, model.ErrEmptyTitle)
		})

		convey.Convey("When creating with a zero date", func() {
			_, err := model.NewEvent("", "Visit", model.Date{}, tod, "", "")

			convey.So(err, convey.ShouldWrap, model.ErrInvalidDate)
		})

		convey.Convey("When ordering two events on the same day", func() {
			morning, _ := model.ParseTimeOfDay("08:00")
			a, _ := model.NewEvent("a", "A", date, tod, "", "")
			b, _ := model.NewEvent("b", "B", date, morning, "", "")

			convey.So(b.Less(a), convey.ShouldBeTrue)
			convey.So(a.Less(b), convey.ShouldBeFalse)
		})
	})
}

func TestFrequency(t *testing.T) {
	convey.Convey("Given frequency wire strings", t, func() {
		convey.Convey("When parsing known values", func() {
			for _, s := range []string{"once-daily", "twice-daily", "three-times-daily"} {
				f, err := model.ParseFrequency(s)
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(f), convey.ShouldEqual, s)
			}
		})

		convey.Convey("When parsing an unknown value", func() {
			_, err := model.ParseFrequency("hourly")

			convey.So(err, convey.ShouldWrap, model.ErrUnknownFrequency)
		})
	})
}

func TestEffectiveDosage(t *testing.T) {
	convey.Convey("Given a medication with a default dosage", t, func() {
		med := model.Medication{ID: "m1", Name: "Lisinopril", DefaultDosage: "10mg"}

		convey.Convey("When the dose has no override", func() {
			dose := model.DoseInstant{ID: "d1", MedicationID: "m1"}

			convey.So(dose.EffectiveDosage(med), convey.ShouldEqual, "10mg")
		})

		convey.Convey("When the dose carries an override", func() {
			dose := model.DoseInstant{ID: "d2", MedicationID: "m1", Dosage: "5mg"}

			convey.So(dose.EffectiveDosage(med), convey.ShouldEqual, "5mg")
		})
	})
}
