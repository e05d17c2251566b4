// Package metrics provides Prometheus metrics for the care-coordination
// service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "carebridge"

// Manager owns the registry and every collector the service records into.
type Manager struct {
	registry *prometheus.Registry

	// Calendar activity
	eventsCreated   prometheus.Counter
	eventsDuplicate prometheus.Counter
	dosesExpanded   prometheus.Counter
	storeEvents     prometheus.Gauge
	storeUpdateMs   prometheus.Histogram
	storeQueryMs    prometheus.Histogram

	// Notification pipeline
	queueCapacity     prometheus.Gauge
	queueSize         prometheus.Gauge
	queueEnqueued     prometheus.Counter
	queueDequeued     prometheus.Counter
	queueEnqueueError *prometheus.CounterVec
	workerCount       prometheus.Gauge
	delivered         prometheus.Counter
	deliveryErrors    prometheus.Counter
	deliveryMs        prometheus.Histogram
	remindersEnqueued prometheus.Counter

	// Chat hub
	chatPublished prometheus.Counter
	chatDropped   prometheus.Counter

	// HTTP surface
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

var manager *Manager

//nolint:gochecknoinits // intentional init for global metrics setup
func init() {
	manager = NewManager()
}

// NewManager builds a Manager with a fresh registry.
func NewManager() *Manager {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	latencyBuckets := []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000}

	return &Manager{
		registry: reg,

		eventsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "events_created_total",
			Help: "Calendar events accepted into the store.",
		}),
		eventsDuplicate: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "events_duplicate_total",
			Help: "Create requests acknowledged as duplicates.",
		}),
		dosesExpanded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "dose_instants_total",
			Help: "Dose instants produced by schedule expansion.",
		}),
		storeEvents: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "store_events",
			Help: "Events currently held in the calendar store.",
		}),
		storeUpdateMs: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "store_update_latency_ms",
			Help: "Store mutation latency.", Buckets: latencyBuckets,
		}),
		storeQueryMs: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "store_query_latency_ms",
			Help: "Store read latency.", Buckets: latencyBuckets,
		}),

		queueCapacity: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "notify_queue_capacity",
			Help: "Configured notification queue capacity.",
		}),
		queueSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "notify_queue_size",
			Help: "Notifications currently queued.",
		}),
		queueEnqueued: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "notify_enqueued_total",
			Help: "Notifications accepted by the queue.",
		}),
		queueDequeued: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "notify_dequeued_total",
			Help: "Notifications handed to workers.",
		}),
		queueEnqueueError: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "notify_enqueue_errors_total",
			Help: "Enqueue rejections by reason.",
		}, []string{"reason"}),
		workerCount: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "delivery_workers",
			Help: "Delivery workers in the pool.",
		}),
		delivered: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "notifications_delivered_total",
			Help: "Notifications delivered to a sink.",
		}),
		deliveryErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "delivery_errors_total",
			Help: "Failed sink deliveries.",
		}),
		deliveryMs: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "delivery_latency_ms",
			Help: "Sink delivery latency.", Buckets: latencyBuckets,
		}),
		remindersEnqueued: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "reminders_enqueued_total",
			Help: "Reminders produced by the daily sweep.",
		}),

		chatPublished: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "chat_published_total",
			Help: "Messages published through the hub.",
		}),
		chatDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "chat_dropped_total",
			Help: "Messages dropped for slow subscribers.",
		}),

		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total",
			Help: "HTTP requests by endpoint, method, and status.",
		}, []string{"endpoint", "method", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_ms",
			Help: "HTTP request latency.", Buckets: latencyBuckets,
		}, []string{"endpoint", "method", "status"}),
	}
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry { return manager.registry }

// Calendar activity.

func RecordEventCreated()      { manager.eventsCreated.Inc() }
func RecordEventDuplicate()    { manager.eventsDuplicate.Inc() }
func RecordDosesExpanded(n int) {
	manager.dosesExpanded.Add(float64(n))
}
func UpdateStoreEvents(count int) { manager.storeEvents.Set(float64(count)) }
func RecordStoreUpdateLatency(ms float64) { manager.storeUpdateMs.Observe(ms) }
func RecordStoreQueryLatency(ms float64)  { manager.storeQueryMs.Observe(ms) }

// Notification pipeline.

func UpdateQueueCapacity(capacity int) { manager.queueCapacity.Set(float64(capacity)) }
func UpdateQueueSize(size int)         { manager.queueSize.Set(float64(size)) }
func RecordQueueEnqueue()              { manager.queueEnqueued.Inc() }
func RecordQueueDequeue()              { manager.queueDequeued.Inc() }
func RecordQueueEnqueueError(reason string) {
	manager.queueEnqueueError.WithLabelValues(reason).Inc()
}
func UpdateWorkerCount(count int)        { manager.workerCount.Set(float64(count)) }
func RecordNotificationDelivered()       { manager.delivered.Inc() }
func RecordDeliveryError()               { manager.deliveryErrors.Inc() }
func RecordDeliveryLatency(ms float64)   { manager.deliveryMs.Observe(ms) }
func RecordReminderEnqueued()            { manager.remindersEnqueued.Inc() }

// Chat hub.

func RecordChatPublished() { manager.chatPublished.Inc() }
func RecordChatDropped()   { manager.chatDropped.Inc() }

// HTTP surface.

func RecordHTTPRequest(endpoint, method, status string) {
	manager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	manager.httpDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}
