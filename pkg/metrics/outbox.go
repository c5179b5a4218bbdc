package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OutboxMetrics records publisher loop outcomes per event type.
type OutboxMetrics struct {
	publishDuration *prometheus.HistogramVec
	published       *prometheus.CounterVec
	failed          *prometheus.CounterVec
	deadLettered    *prometheus.CounterVec
	backlog         prometheus.Gauge
}

// NewOutboxMetrics registers the outbox publisher metrics on the provided registerer.
func NewOutboxMetrics(reg prometheus.Registerer) *OutboxMetrics {
	if reg == nil {
		return &OutboxMetrics{}
	}
	publishDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "outbox_publish_duration_seconds",
		Help:    "Duration of outbox publish attempts in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"event_type"})
	published := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_published_total",
		Help: "Outbox events published successfully.",
	}, []string{"event_type"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_publish_failures_total",
		Help: "Outbox publish attempts that failed and will retry.",
	}, []string{"event_type"})
	deadLettered := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_dead_lettered_total",
		Help: "Outbox events moved to the dead letter table.",
	}, []string{"event_type", "reason"})
	backlog := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "outbox_backlog",
		Help: "Unpublished outbox rows seen by the last poll.",
	})
	reg.MustRegister(publishDuration, published, failed, deadLettered, backlog)
	return &OutboxMetrics{
		publishDuration: publishDuration,
		published:       published,
		failed:          failed,
		deadLettered:    deadLettered,
		backlog:         backlog,
	}
}

// ObservePublishDuration records how long one publish attempt took.
func (m *OutboxMetrics) ObservePublishDuration(eventType string, duration time.Duration) {
	if m == nil || m.publishDuration == nil {
		return
	}
	m.publishDuration.WithLabelValues(normalizeLabel(eventType)).Observe(duration.Seconds())
}

// IncPublished increments the success counter for the event type.
func (m *OutboxMetrics) IncPublished(eventType string) {
	if m == nil || m.published == nil {
		return
	}
	m.published.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncFailed increments the retryable-failure counter for the event type.
func (m *OutboxMetrics) IncFailed(eventType string) {
	if m == nil || m.failed == nil {
		return
	}
	m.failed.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncDeadLettered counts rows routed to the DLQ with the given reason.
func (m *OutboxMetrics) IncDeadLettered(eventType, reason string) {
	if m == nil || m.deadLettered == nil {
		return
	}
	m.deadLettered.WithLabelValues(normalizeLabel(eventType), normalizeLabel(reason)).Inc()
}

// SetBacklog reports the number of unpublished rows from the latest poll.
func (m *OutboxMetrics) SetBacklog(count int) {
	if m == nil || m.backlog == nil {
		return
	}
	m.backlog.Set(float64(count))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
