package session

import (
	"github.com/cooldogedev/prism/protocol"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics sessions report to. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	framesRead     prometheus.Counter
	framesWritten  prometheus.Counter
	bytesRead      prometheus.Counter
	bytesWritten   prometheus.Counter
	unknownIDs     *prometheus.CounterVec
	activeSessions prometheus.Gauge
}

// NewMetrics creates the session metrics and registers them with reg. A nil reg leaves them
// unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		framesRead: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "prism",
			Name:      "frames_read_total",
			Help:      "Total number of frames read from servers",
		}),
		framesWritten: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "prism",
			Name:      "frames_written_total",
			Help:      "Total number of frames written to servers",
		}),
		bytesRead: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "prism",
			Name:      "payload_bytes_read_total",
			Help:      "Total number of decoded payload bytes read from servers",
		}),
		bytesWritten: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "prism",
			Name:      "payload_bytes_written_total",
			Help:      "Total number of payload bytes written to servers",
		}),
		unknownIDs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "prism",
			Name:      "unknown_ids_total",
			Help:      "Total number of messages with an unknown id",
		}, []string{"state"}),
		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "prism",
			Name:      "active_sessions",
			Help:      "Number of open sessions",
		}),
	}
}

func (m *Metrics) frameRead(n int) {
	if m == nil {
		return
	}
	m.framesRead.Inc()
	m.bytesRead.Add(float64(n))
}

func (m *Metrics) frameWritten(n int) {
	if m == nil {
		return
	}
	m.framesWritten.Inc()
	m.bytesWritten.Add(float64(n))
}

func (m *Metrics) unknownID(state protocol.State) {
	if m == nil {
		return
	}
	m.unknownIDs.WithLabelValues(state.String()).Inc()
}

func (m *Metrics) sessionOpened() {
	if m == nil {
		return
	}
	m.activeSessions.Inc()
}

func (m *Metrics) sessionClosed() {
	if m == nil {
		return
	}
	m.activeSessions.Dec()
}
