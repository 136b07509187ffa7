package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gym_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gym_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	CheckInsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gym_checkins_total",
			Help: "Total number of attendance check-ins",
		},
		[]string{"source"},
	)

	PaymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gym_payments_total",
			Help: "Total number of recorded membership payments",
		},
		[]string{"method", "status"},
	)

	MembershipExtensionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gym_membership_extensions_total",
			Help: "Membership extensions triggered by payments",
		},
		[]string{"result"},
	)

	CodeCollisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gym_code_collisions_total",
			Help: "Sequential code collisions that required a retry",
		},
		[]string{"entity"},
	)

	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gym_cache_requests_total",
			Help: "Analytics cache lookups",
		},
		[]string{"cache", "result"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gym_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gym_circuit_breaker_requests_total",
			Help: "Requests passing through a circuit breaker",
		},
		[]string{"name", "result"},
	)

	MembersDeactivatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gym_members_deactivated_total",
			Help: "Members deactivated because their membership expired",
		},
	)
)

// 扩展结果标签
const (
	ExtensionApplied = "applied"
	ExtensionFailed  = "failed"
	ExtensionQueued  = "queued"
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordCheckIn(source string) {
	CheckInsTotal.WithLabelValues(source).Inc()
}

func RecordPayment(method, status string) {
	PaymentsTotal.WithLabelValues(method, status).Inc()
}

func RecordExtension(result string) {
	MembershipExtensionsTotal.WithLabelValues(result).Inc()
}

func RecordCodeCollision(entity string) {
	CodeCollisionsTotal.WithLabelValues(entity).Inc()
}

func RecordCache(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheRequestsTotal.WithLabelValues(cache, result).Inc()
}

func RecordDeactivations(n int) {
	MembersDeactivatedTotal.Add(float64(n))
}

func RecordBreakerState(name string, state float64) {
	CircuitBreakerState.WithLabelValues(name).Set(state)
}

func RecordBreakerRequest(name, result string) {
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}
