package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	registry     *prometheus.Registry
	scans        prometheus.Counter
	scanErrors   prometheus.Counter
	scanDuration prometheus.Histogram
	powerActions *prometheus.CounterVec
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	m := &metrics{
		registry: reg,
		scans: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hubd_scans_total",
			Help: "USB topology scans attempted.",
		}),
		scanErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hubd_scan_errors_total",
			Help: "USB topology scans that failed at the enumeration command.",
		}),
		scanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hubd_scan_duration_seconds",
			Help:    "Wall time of a full topology scan.",
			Buckets: prometheus.DefBuckets,
		}),
		powerActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hubd_power_actions_total",
			Help: "Port power actions requested, by action.",
		}, []string{"action"}),
	}
	reg.MustRegister(m.scans, m.scanErrors, m.scanDuration, m.powerActions)
	return m
}

func (m *metrics) observeScan(d time.Duration, err error) {
	m.scans.Inc()
	if err != nil {
		m.scanErrors.Inc()
	}
	m.scanDuration.Observe(d.Seconds())
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
