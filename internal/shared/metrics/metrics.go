package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "auditor"

var (
	registry = prometheus.NewRegistry()

	auditsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audits_total",
		Help:      "Case audits generated, by case phase.",
	}, []string{"phase"})

	scansTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scans_total",
		Help:      "Scans finished, by scan type and status.",
	}, []string{"type", "status"})

	scanDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "scan_duration_seconds",
		Help:      "Scan duration in seconds.",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
	}, []string{"type"})

	cmsRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cms_requests_total",
		Help:      "Requests issued to CMS providers, by provider and outcome.",
	}, []string{"provider", "outcome"})

	scanJobsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scan_jobs_total",
		Help:      "Queued scan jobs seen by the worker, by result.",
	}, []string{"result"})

	rateLimitedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_rate_limited_total",
		Help:      "Requests rejected by the rate limiter, by route group.",
	}, []string{"group"})
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		auditsTotal,
		scansTotal,
		scanDuration,
		cmsRequestsTotal,
		scanJobsTotal,
		rateLimitedTotal,
	)
}

// Registry exposes the process registry, mainly for tests.
func Registry() *prometheus.Registry {
	return registry
}

// IncAudit counts one generated audit report.
func IncAudit(phase string) {
	auditsTotal.WithLabelValues(phase).Inc()
}

// ObserveScan records a finished scan.
func ObserveScan(scanType, status string, seconds float64) {
	if seconds < 0 {
		seconds = 0
	}
	scansTotal.WithLabelValues(scanType, status).Inc()
	scanDuration.WithLabelValues(scanType).Observe(seconds)
}

// IncCMSRequest counts one CMS HTTP request. outcome is ok, error or not_found.
func IncCMSRequest(provider, outcome string) {
	cmsRequestsTotal.WithLabelValues(provider, outcome).Inc()
}

// IncScanJobsReceived counts a job pulled off the queue.
func IncScanJobsReceived() {
	scanJobsTotal.WithLabelValues("received").Inc()
}

// IncScanJobsDeletedUnrecoverable counts a job dropped without retry.
func IncScanJobsDeletedUnrecoverable() {
	scanJobsTotal.WithLabelValues("deleted_unrecoverable").Inc()
}

// IncScanJobsCompleted counts a job whose scan finished and was acknowledged.
func IncScanJobsCompleted() {
	scanJobsTotal.WithLabelValues("completed").Inc()
}

// IncScanJobsFailed counts a job left on the queue for redelivery.
func IncScanJobsFailed() {
	scanJobsTotal.WithLabelValues("failed").Inc()
}

// IncRateLimited counts a request rejected with 429.
func IncRateLimited(group string) {
	rateLimitedTotal.WithLabelValues(group).Inc()
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}
