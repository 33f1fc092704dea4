package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "ehsas_http_requests_total", Help: "Total HTTP requests by method, route and status"},
		[]string{"method", "route", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ehsas_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	Registrations = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "ehsas_registrations_total", Help: "Total alumni registrations accepted"},
	)
	Approvals = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "ehsas_approvals_total", Help: "Total alumni registrations approved"},
	)
	Rejections = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "ehsas_rejections_total", Help: "Total alumni registrations rejected"},
	)
	EmailsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "ehsas_emails_total", Help: "Outbound emails by template and result"},
		[]string{"template", "result"},
	)
	RateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "ehsas_rate_limited_total", Help: "Requests rejected by the rate limiter"},
		[]string{"route"},
	)
)

var registerOnce sync.Once

// Register adds the collectors to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(HTTPRequests, HTTPDuration, Registrations, Approvals, Rejections, EmailsSent, RateLimited)
	})
}
