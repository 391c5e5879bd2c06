package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "wishbot"

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	codeRedemptions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "share_code_redemptions_total",
			Help:      "Share code redemptions by outcome.",
		},
		[]string{"outcome"},
	)

	failedAttempts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "share_code_failed_attempts_total",
			Help:      "Failed share code attempts.",
		},
	)

	rateLimitDegraded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_degraded_total",
			Help:      "Rate limit checks that failed open because the counter store was unavailable.",
		},
	)

	filterQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filter_queries_total",
			Help:      "Item filter queries by whether any filter was set.",
		},
		[]string{"filtered"},
	)

	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification deliveries by kind and result.",
		},
		[]string{"kind", "result"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			codeRedemptions,
			failedAttempts,
			rateLimitDegraded,
			filterQueries,
			notifications,
		)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

func IncRedemption(outcome string) {
	codeRedemptions.WithLabelValues(outcome).Inc()
}

func IncFailedAttempt() {
	failedAttempts.Inc()
}

func IncRateLimitDegraded() {
	rateLimitDegraded.Inc()
}

func IncFilterQuery(filtered bool) {
	label := "false"
	if filtered {
		label = "true"
	}
	filterQueries.WithLabelValues(label).Inc()
}

// IncNotification records one delivery; result is "sent" or "failed".
func IncNotification(kind, result string) {
	notifications.WithLabelValues(kind, result).Inc()
}
