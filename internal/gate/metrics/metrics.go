package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Decision labels for the edge gate outcome counter.
const (
	DecisionPass            = "pass"
	DecisionPublic          = "public"
	DecisionRedirectLogin   = "redirect_login"
	DecisionRedirectBilling = "redirect_billing"
	DecisionFailClosed      = "fail_closed"
)

type Metrics struct {
	Decisions *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "clientdesk_gate_decisions_total",
			Help: "Edge gate decisions by outcome",
		}, []string{"decision"}),
	}
}

func (m *Metrics) Record(decision string) {
	if m == nil {
		return
	}
	m.Decisions.WithLabelValues(decision).Inc()
}
