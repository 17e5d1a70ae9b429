package pipe

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK       = "ok"
	outcomeFailed   = "failed"
	outcomeCanceled = "canceled"
)

// Metrics holds the Prometheus collectors a Pipe reports to. One Metrics
// value is shared by every pipe started WithMetrics.
type Metrics struct {
	started      prometheus.Counter
	active       prometheus.Gauge
	bytesWritten prometheus.Counter
	finished     *prometheus.CounterVec
}

// NewMetrics creates the pipe collectors and registers them with reg.
// It panics if they are already registered there.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		started: factory.NewCounter(prometheus.CounterOpts{
			Name: "vbio_pipes_started_total",
			Help: "Total number of pipes started",
		}),
		active: factory.NewGauge(prometheus.GaugeOpts{
			Name: "vbio_pipes_active",
			Help: "Number of pipes whose producer is still running",
		}),
		bytesWritten: factory.NewCounter(prometheus.CounterOpts{
			Name: "vbio_pipe_bytes_written_total",
			Help: "Total number of bytes handed to pipes by producers",
		}),
		finished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vbio_pipes_finished_total",
			Help: "Total number of pipe producers that exited, by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) pipeStarted() {
	if m == nil {
		return
	}
	m.started.Inc()
	m.active.Inc()
}

func (m *Metrics) pipeFinished(outcome string, written int64) {
	if m == nil {
		return
	}
	m.active.Dec()
	m.bytesWritten.Add(float64(written))
	m.finished.WithLabelValues(outcome).Inc()
}
