// Package metrics owns the Prometheus registry for the api and scheduler.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "smokefree"

var (
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "inflight_requests",
		Help:      "Current number of in-flight HTTP requests.",
	})

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests handled.",
	}, []string{"method", "route", "status"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
	}, []string{"method", "route"})

	rateLimited = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the rate limiter.",
	})

	jobRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "jobs",
		Name:      "runs_total",
		Help:      "Scheduled job runs by outcome.",
	}, []string{"job", "status"})

	jobDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "jobs",
		Name:      "run_duration_seconds",
		Help:      "Duration of scheduled job runs.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
	}, []string{"job"})

	motivationsGenerated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "motivation",
		Name:      "generated_total",
		Help:      "Daily motivations generated, by generator and outcome.",
	}, []string{"generator", "status"})

	badgesAwarded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "badges",
		Name:      "awarded_total",
		Help:      "Badges granted by the badge job.",
	})

	notificationsSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "notifications",
		Name:      "sent_total",
		Help:      "Push notifications attempted, by outcome.",
	}, []string{"status"})
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		rateLimited,
		jobRuns,
		jobDuration,
		motivationsGenerated,
		badgesAwarded,
		notificationsSent,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func HTTPRequestStarted() func(method, route, status string) {
	start := time.Now()
	httpInFlight.Inc()
	return func(method, route, status string) {
		httpInFlight.Dec()
		httpRequests.WithLabelValues(method, route, status).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

func RecordRateLimited() {
	rateLimited.Inc()
}

// RecordJobRun records one run of a scheduled job. status is one of
// "success", "failed" or "skipped".
func RecordJobRun(job, status string, duration time.Duration) {
	jobRuns.WithLabelValues(job, status).Inc()
	if status != "skipped" {
		jobDuration.WithLabelValues(job).Observe(duration.Seconds())
	}
}

func RecordMotivation(generator string, err error) {
	status := "success"
	if err != nil {
		status = "failed"
	}
	motivationsGenerated.WithLabelValues(generator, status).Inc()
}

func RecordBadgesAwarded(n int) {
	badgesAwarded.Add(float64(n))
}

func RecordNotification(err error) {
	status := "sent"
	if err != nil {
		status = "failed"
	}
	notificationsSent.WithLabelValues(status).Inc()
}
