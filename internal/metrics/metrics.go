package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	CoinsMoved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coins_moved_total",
			Help: "Coins moved through the ledger by reason",
		},
		[]string{"reason"},
	)

	PayoutsReviewed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payouts_reviewed_total",
			Help: "Payout requests processed by outcome",
		},
		[]string{"status"},
	)

	WebhookDuplicates = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "payment_webhook_duplicates_total",
			Help: "Payment webhook deliveries dropped as already processed",
		},
	)

	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)
)

var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(CoinsMoved)
	prometheus.MustRegister(PayoutsReviewed)
	prometheus.MustRegister(WebhookDuplicates)
	prometheus.MustRegister(WorkerQueueDepth)
}
