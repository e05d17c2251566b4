package notify_test

import (
	"testing"

	model "github.com/carebridge/carebridge/internal/domain/model"
	"github.com/carebridge/carebridge/internal/domain/notify"
	"github.com/smartystreets/goconvey/convey"
)

func TestNotificationVariants(t *testing.T) {
	convey.Convey("Given the notification variants", t, func() {
		date, _ := model.ParseDate("2025-05-18")
		tod, _ := model.ParseTimeOfDay("08:00")

		convey.Convey("When rendering a dose reminder with a dosage", func() {
			n := notify.DoseReminder{MedicationName: "Lisinopril", Dosage: "10mg", Date: date, Time: tod}

			convey.So(n.Render(), convey.ShouldEqual, "Dose due 2025-05-18 08:00: Lisinopril (10mg)")
			convey.So(n.Priority(), convey.ShouldEqual, notify.PriorityHigh)
		})

		convey.Convey("When rendering a dose reminder without a dosage", func() {
			n := notify.DoseReminder{MedicationName: "Lisinopril", Date: date, Time: tod}

			convey.So(n.Render(), convey.ShouldEqual, "Dose due 2025-05-18 08:00: Lisinopril")
		})

		convey.Convey("When rendering an event reminder", func() {
			ev, _ := model.NewEvent("e1", "Physio visit", date, tod, "", "")
			n := notify.EventReminder{Event: ev}

			convey.So(n.Render(), convey.ShouldEqual, "Today 08:00: Physio visit")
			convey.So(n.Priority(), convey.ShouldEqual, notify.PriorityNormal)
		})

		convey.Convey("When rendering a team update", func() {
			n := notify.TeamUpdate{MemberName: "Dana", Change: "joined"}

			convey.So(n.Render(), convey.ShouldEqual, "Care team: Dana joined")
			convey.So(n.Priority(), convey.ShouldEqual, notify.PriorityLow)
		})

		convey.Convey("When rendering a chat mention", func() {
			n := notify.ChatMention{From: "Sam", Text: "pickup moved to 3pm"}

			convey.So(n.Render(), convey.ShouldEqual, "Sam mentioned you: pickup moved to 3pm")
		})

		convey.Convey("When naming priorities", func() {
			convey.So(notify.PriorityLow.String(), convey.ShouldEqual, "low")
			convey.So(notify.PriorityNormal.String(), convey.ShouldEqual, "normal")
			convey.So(notify.PriorityHigh.String(), convey.ShouldEqual, "high")
		})
	})
}
