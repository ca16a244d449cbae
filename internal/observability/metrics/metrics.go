// Package metrics exposes Prometheus instrumentation for the HTTP API.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	billsCreated    prometheus.Counter
)

// Init registers the collectors. Safe to call more than once.
func Init() {
	once.Do(func() {
		requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "barbershop",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"})

		requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "barbershop",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"})

		billsCreated = promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "barbershop",
			Subsystem: "pos",
			Name:      "bills_created_total",
			Help:      "Bills successfully recorded.",
		})
	})
}

// Handler serves the scrape endpoint.
func Handler() http.Handler {
	Init()
	return promhttp.Handler()
}

func ObserveRequest(method, route, status string, seconds float64) {
	if requestsTotal == nil {
		return
	}
	requestsTotal.WithLabelValues(method, route, status).Inc()
	requestDuration.WithLabelValues(method, route).Observe(seconds)
}

func IncBillsCreated() {
	if billsCreated == nil {
		return
	}
	billsCreated.Inc()
}
