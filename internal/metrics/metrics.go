package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests"},
		[]string{"route", "method", "status"},
	)
	ReqDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Request duration seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	InFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "http_in_flight_requests", Help: "In-flight HTTP requests"},
	)

	NotificationsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "notifications_sent_total", Help: "Notifications persisted"},
		[]string{"type"},
	)
	WSPushes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "ws_pushes_total", Help: "Live-channel pushes"},
		[]string{"kind", "outcome"},
	)
	LikeToggles = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "like_toggles_total", Help: "Like toggle operations"},
		[]string{"result"},
	)
	TokenRevocations = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "token_revocations_total", Help: "Access-token jti revocations"},
	)
)

func MustRegister() {
	prometheus.MustRegister(
		RequestsTotal, ReqDuration, InFlight,
		NotificationsSent, WSPushes, LikeToggles, TokenRevocations,
	)
}
