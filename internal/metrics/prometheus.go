package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PollCycles = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "detector_poll_cycles_total",
			Help: "Total number of change-detector poll cycles",
		},
	)

	FetchFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "source_fetch_failures_total",
			Help: "Total number of failed upstream record fetches",
		},
	)

	ChangesDetected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "detector_changes_detected_total",
			Help: "Total number of record-set fingerprint changes",
		},
	)

	RefreshSignals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refresh_signals_published_total",
			Help: "Refresh signals published per tenant",
		},
		[]string{"tenant"},
	)

	ActiveSubscribers = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dashboard_active_subscribers",
			Help: "Currently subscribed dashboard sessions per tenant",
		},
		[]string{"tenant"},
	)

	SnapshotsComputed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_snapshots_computed_total",
			Help: "Dashboard snapshots computed per tenant",
		},
		[]string{"tenant"},
	)
)

// Init registers metrics with Prometheus
func Init() {
	prometheus.MustRegister(PollCycles)
	prometheus.MustRegister(FetchFailures)
	prometheus.MustRegister(ChangesDetected)
	prometheus.MustRegister(RefreshSignals)
	prometheus.MustRegister(ActiveSubscribers)
	prometheus.MustRegister(SnapshotsComputed)
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
