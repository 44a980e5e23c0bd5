// Package metrics holds the prometheus collectors of the ledger service.
package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ledger"

// Result label values.
const (
	ResultSuccess          = "success"
	ResultAlreadyProcessed = "already_processed"
	ResultRejected         = "rejected"
	ResultError            = "error"
)

var (
	Distributions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "distributions_total",
		Help:      "Recharge distributions by result",
	}, []string{"result"})

	CommissionCredited = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "commission_credited_total",
		Help:      "Commission credited to ancestors by referral level",
	}, []string{"level"})

	Withdrawals = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "withdrawals_total",
		Help:      "Withdrawal operations by operation and result",
	}, []string{"operation", "result"})

	Retries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "retries_total",
		Help:      "Transient failures retried by operation",
	}, []string{"operation"})

	OperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "operation_duration_seconds",
		Help:      "Duration of ledger operations",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	NotificationsDelivered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_delivered_total",
		Help:      "Reward notifications relayed to the sink by result",
	}, []string{"result"})
)

// Handler serves the default registry on a fiber route.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
