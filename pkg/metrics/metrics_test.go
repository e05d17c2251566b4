package metrics_test

import (
	"testing"

	"github.com/carebridge/carebridge/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetrics(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("Then the registry is available", func() {
			So(metrics.GetRegistry(), ShouldNotBeNil)
		})

		Convey("When recording calendar activity", func() {
			metrics.RecordEventCreated()
			metrics.RecordEventDuplicate()
			metrics.RecordDosesExpanded(14)
			metrics.UpdateStoreEvents(3)
			metrics.RecordStoreUpdateLatency(1.2)
			metrics.RecordStoreQueryLatency(0.4)

			families, err := metrics.GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})

		Convey("When recording pipeline and HTTP activity", func() {
			metrics.UpdateQueueCapacity(100)
			metrics.UpdateQueueSize(2)
			metrics.RecordQueueEnqueue()
			metrics.RecordQueueDequeue()
			metrics.RecordQueueEnqueueError("queue_full")
			metrics.UpdateWorkerCount(4)
			metrics.RecordNotificationDelivered()
			metrics.RecordDeliveryError()
			metrics.RecordDeliveryLatency(3)
			metrics.RecordReminderEnqueued()
			metrics.RecordChatPublished()
			metrics.RecordChatDropped()
			metrics.RecordHTTPRequest("events", "POST", "202")
			metrics.RecordHTTPRequestDuration("events", "POST", "202", 5)

			families, err := metrics.GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 5)
		})
	})
}
