package metrics

import "github.com/prometheus/client_golang/prometheus"

// Ingestion Prometheus metrics.
var (
	EventsIngestedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "llmpulse",
			Name:      "events_ingested_total",
			Help:      "Total number of ingested call events",
		},
		[]string{"model", "status"},
	)

	EventCostUSDTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "llmpulse",
			Name:      "event_cost_usd_total",
			Help:      "Accumulated USD cost of ingested call events",
		},
		[]string{"model"},
	)
)

var ingestMetricsRegistered bool

// RegisterIngestMetrics registers Prometheus ingestion metrics. Must be
// called once from main.
func RegisterIngestMetrics() {
	if ingestMetricsRegistered {
		return
	}
	prometheus.MustRegister(EventsIngestedTotal)
	prometheus.MustRegister(EventCostUSDTotal)
	ingestMetricsRegistered = true
}

// IngestRecorder adapts the ingestion counters to the event service.
type IngestRecorder struct{}

// ObserveIngest counts one persisted event and its cost.
func (IngestRecorder) ObserveIngest(model, status string, costUSD float64) {
	EventsIngestedTotal.WithLabelValues(model, status).Inc()
	if costUSD > 0 {
		EventCostUSDTotal.WithLabelValues(model).Add(costUSD)
	}
}
