package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Payment counts checkout initiations and reconciliation outcomes per
// processor. Reconciliation outcomes use the values "completed",
// "duplicate", "mismatch", "failed" and "error".
type Payment struct {
	Initiated  *prometheus.CounterVec
	Reconciled *prometheus.CounterVec
}

// NewPayment registers payment counters on the given registerer. Tests pass
// a fresh prometheus.NewRegistry so repeated construction never collides.
func NewPayment(reg prometheus.Registerer) *Payment {
	initiated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shopcart",
		Subsystem: "payments",
		Name:      "initiated_total",
		Help:      "Checkout initiations per processor and result.",
	}, []string{"processor", "result"})
	reconciled := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shopcart",
		Subsystem: "payments",
		Name:      "reconciled_total",
		Help:      "Reconciliation attempts per processor and outcome.",
	}, []string{"processor", "outcome"})

	reg.MustRegister(initiated, reconciled)
	return &Payment{Initiated: initiated, Reconciled: reconciled}
}

// Handler serves the default registry; the api binary registers its
// collectors there.
func Handler() http.Handler {
	return promhttp.Handler()
}
