package metrics

import "github.com/prometheus/client_golang/prometheus"

// PipelineMetrics tracks order pipeline side effects that run outside the
// main transaction and can fail without failing the request.
type PipelineMetrics struct {
	performanceFailures prometheus.Counter
	outboxPublished     prometheus.Counter
	outboxFailures      prometheus.Counter
}

// NewPipelineMetrics registers the pipeline metrics on the provided registerer.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	if reg == nil {
		return &PipelineMetrics{}
	}
	performanceFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "performance_record_failures_total",
		Help: "Agent performance records dropped after the order committed.",
	})
	outboxPublished := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "outbox_events_published_total",
		Help: "Outbox events successfully relayed to Pub/Sub.",
	})
	outboxFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "outbox_publish_failures_total",
		Help: "Outbox relay attempts that failed.",
	})
	reg.MustRegister(performanceFailures, outboxPublished, outboxFailures)
	return &PipelineMetrics{
		performanceFailures: performanceFailures,
		outboxPublished:     outboxPublished,
		outboxFailures:      outboxFailures,
	}
}

// IncPerformanceFailure counts a dropped performance record.
func (m *PipelineMetrics) IncPerformanceFailure() {
	if m == nil || m.performanceFailures == nil {
		return
	}
	m.performanceFailures.Inc()
}

// IncOutboxPublished counts a relayed outbox event.
func (m *PipelineMetrics) IncOutboxPublished() {
	if m == nil || m.outboxPublished == nil {
		return
	}
	m.outboxPublished.Inc()
}

// IncOutboxFailure counts a failed relay attempt.
func (m *PipelineMetrics) IncOutboxFailure() {
	if m == nil || m.outboxFailures == nil {
		return
	}
	m.outboxFailures.Inc()
}
