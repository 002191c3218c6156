package daemon

import "github.com/prometheus/client_golang/prometheus"

// Stats is this daemon's prometheus registry, following the naming
// convention ("*_total" for counters, "*_seconds" for latencies) the
// teacher's own stats package spells out in StatsD dot-notation terms, here
// adapted to prometheus' underscore convention since that's the idiom the
// library itself expects.
type Stats struct {
	Registry *prometheus.Registry

	RequestsTotal  *prometheus.CounterVec
	RequestLatency *prometheus.HistogramVec
	ErrorsTotal    *prometheus.CounterVec
	ObjectsBound   *prometheus.GaugeVec
	BytesStreamed  *prometheus.CounterVec
}

func NewStats() *Stats {
	reg := prometheus.NewRegistry()
	s := &Stats{
		Registry: reg,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dcl", Subsystem: "daemon", Name: "requests_total",
			Help: "Requests processed, by message type.",
		}, []string{"type"}),
		RequestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dcl", Subsystem: "daemon", Name: "request_latency_seconds",
			Help:    "Request handling latency, by message type.",
			Buckets: prometheus.DefBuckets,
		}, []string{"type"}),
		ErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dcl", Subsystem: "daemon", Name: "errors_total",
			Help: "Driver/protocol errors, by message type.",
		}, []string{"type"}),
		ObjectsBound: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "dcl", Subsystem: "daemon", Name: "objects_bound",
			Help: "Currently bound objects, by kind.",
		}, []string{"kind"}),
		BytesStreamed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dcl", Subsystem: "daemon", Name: "bytes_streamed_total",
			Help: "Bytes moved over the data stream, by direction.",
		}, []string{"direction"}),
	}
	reg.MustRegister(s.RequestsTotal, s.RequestLatency, s.ErrorsTotal, s.ObjectsBound, s.BytesStreamed)
	return s
}
