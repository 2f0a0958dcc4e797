package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the watcher's Prometheus collectors on a private registry,
// so several instances (tests, a CLI run inside the API) never collide.
type Metrics struct {
	registry     *prometheus.Registry
	runsTotal    *prometheus.CounterVec
	channelSends *prometheus.CounterVec
	records      prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "availwatch_runs_total",
				Help: "Completed runs by final state",
			},
			[]string{"state"},
		),
		channelSends: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "availwatch_channel_sends_total",
				Help: "Notification attempts by channel and outcome",
			},
			[]string{"channel", "status"},
		),
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "availwatch_records",
			Help: "Availability records in the last extracted result set",
		}),
	}
	m.registry.MustRegister(
		m.runsTotal,
		m.channelSends,
		m.records,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRun counts a finished run. records < 0 leaves the gauge untouched
// (the run failed before extraction).
func (m *Metrics) ObserveRun(state string, records int) {
	m.runsTotal.WithLabelValues(state).Inc()
	if records >= 0 {
		m.records.Set(float64(records))
	}
}

func (m *Metrics) ObserveOutcome(channel, status string) {
	m.channelSends.WithLabelValues(channel, status).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
