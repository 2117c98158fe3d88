package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles the prometheus collectors the services and middleware
// report into. Every collector is registered exactly once at construction,
// so tests can build isolated instances against their own registry.
type Metrics struct {
	OrdersCreated   prometheus.Counter
	PaymentIntents  *prometheus.CounterVec
	WebhookEvents   *prometheus.CounterVec
	StockDecrements *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
}

// New registers the application collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Orders persisted in PENDING status.",
		}),
		PaymentIntents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payment_intents_total",
			Help: "Payment intents requested from the processor, by outcome.",
		}, []string{"outcome"}),
		WebhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Verified processor webhook deliveries, by type and outcome.",
		}, []string{"type", "outcome"}),
		StockDecrements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stock_decrements_total",
			Help: "Per-item settlement stock decrements, by outcome.",
		}, []string{"outcome"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(
		m.OrdersCreated,
		m.PaymentIntents,
		m.WebhookEvents,
		m.StockDecrements,
		m.HTTPDuration,
	)
	return m
}
