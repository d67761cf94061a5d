// Package metrics provides Prometheus metrics for the tick engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mstrvictor/prosperity3/market"
)

// Engine holds the per-run collectors updated by the tick loop.
type Engine struct {
	TicksTotal    prometheus.Counter
	OrdersEmitted *prometheus.CounterVec // labels: product, side
	Position      *prometheus.GaugeVec   // label: product
	SkippedTicks  *prometheus.CounterVec // label: product, snapshot had no depth
}

// NewEngine registers the engine collectors on reg (nil means the default
// registry).
func NewEngine(reg prometheus.Registerer) *Engine {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Engine{
		TicksTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "engine_ticks_total",
			Help: "Ticks processed.",
		}),
		OrdersEmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "engine_orders_emitted_total",
			Help: "Orders emitted by product and side.",
		}, []string{"product", "side"}),
		Position: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "engine_position",
			Help: "Position per product at tick start.",
		}, []string{"product"}),
		SkippedTicks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "engine_skipped_ticks_total",
			Help: "Ticks where a configured product had no order depth.",
		}, []string{"product"}),
	}
}

// ObserveOrders records one product's emitted orders for the tick.
func (e *Engine) ObserveOrders(product string, orders []market.Order) {
	for _, o := range orders {
		side := "buy"
		if o.Quantity < 0 {
			side = "sell"
		}
		e.OrdersEmitted.WithLabelValues(product, side).Inc()
	}
}

// StartServer exposes /metrics on addr; it returns immediately.
func StartServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		_ = http.ListenAndServe(addr, mux)
	}()
}
