package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sentigraph/backend/internal/graph"
)

var _ graph.Recorder = (*Metrics)(nil)

// Metrics holds the service collectors on a private registry
type Metrics struct {
	registry      *prometheus.Registry
	ingestions    *prometheus.CounterVec
	nodesUpserted *prometheus.CounterVec
	edgesUpserted prometheus.Counter
	duration      *prometheus.HistogramVec
}

// New creates and registers the collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ingestions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentigraph_ingestions_total",
				Help: "Ingested batches by mode and outcome",
			},
			[]string{"mode", "outcome"},
		),
		nodesUpserted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentigraph_nodes_upserted_total",
				Help: "Node upserts issued by ingestion, by node type",
			},
			[]string{"type"},
		),
		edgesUpserted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "sentigraph_edges_upserted_total",
				Help: "Edge upserts issued by ingestion",
			},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sentigraph_operation_duration_seconds",
				Help:    "Latency of graph operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "outcome"},
		),
	}

	m.registry.MustRegister(
		m.ingestions,
		m.nodesUpserted,
		m.edgesUpserted,
		m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveIngest implements graph.Recorder
func (m *Metrics) ObserveIngest(mode graph.Mode, result *graph.IngestResult, err error, elapsed time.Duration) {
	o := outcome(err)
	m.ingestions.WithLabelValues(string(mode), o).Inc()
	m.duration.WithLabelValues("ingest", o).Observe(elapsed.Seconds())
	if result == nil {
		return
	}
	for kind, n := range result.NodesByKind {
		m.nodesUpserted.WithLabelValues(string(kind)).Add(float64(n))
	}
	m.edgesUpserted.Add(float64(result.EdgesUpserted))
}

// ObserveQuery implements graph.Recorder
func (m *Metrics) ObserveQuery(operation string, err error, elapsed time.Duration) {
	m.duration.WithLabelValues(operation, outcome(err)).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
