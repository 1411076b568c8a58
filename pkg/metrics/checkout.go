package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records outcomes of the payment and order-finalization flow.
type CheckoutMetrics struct {
	confirmDuration *prometheus.HistogramVec
	ordersCreated   prometheus.Counter
	intentsCreated  prometheus.Counter
	failures        *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	confirmDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_confirm_duration_seconds",
		Help:    "Duration of checkout confirmation in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_orders_created_total",
		Help: "Orders created from confirmed payments.",
	})
	intentsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_intents_created_total",
		Help: "Payment intents opened for cart checkouts.",
	})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failures_total",
		Help: "Checkout rejections by reason.",
	}, []string{"reason"})
	reg.MustRegister(confirmDuration, ordersCreated, intentsCreated, failures)
	return &CheckoutMetrics{
		confirmDuration: confirmDuration,
		ordersCreated:   ordersCreated,
		intentsCreated:  intentsCreated,
		failures:        failures,
	}
}

// ObserveConfirmDuration records how long a confirmation took for the outcome.
func (c *CheckoutMetrics) ObserveConfirmDuration(outcome string, duration time.Duration) {
	if c == nil || c.confirmDuration == nil {
		return
	}
	c.confirmDuration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncOrdersCreated increments the created-orders counter.
func (c *CheckoutMetrics) IncOrdersCreated() {
	if c == nil || c.ordersCreated == nil {
		return
	}
	c.ordersCreated.Inc()
}

// IncIntentsCreated increments the opened-intents counter.
func (c *CheckoutMetrics) IncIntentsCreated() {
	if c == nil || c.intentsCreated == nil {
		return
	}
	c.intentsCreated.Inc()
}

// IncFailure increments the failure counter for the named reason.
func (c *CheckoutMetrics) IncFailure(reason string) {
	if c == nil || c.failures == nil {
		return
	}
	c.failures.WithLabelValues(normalizeLabel(reason)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
