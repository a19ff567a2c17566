package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ChecksBlocked prometheus.Counter
	ChecksAllowed prometheus.Counter
	CheckDuration prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		ChecksBlocked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clientdesk_billing_checks_blocked_total",
			Help: "Total delinquency checks that resulted in a block",
		}),
		ChecksAllowed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clientdesk_billing_checks_allowed_total",
			Help: "Total delinquency checks that allowed access",
		}),
		CheckDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "clientdesk_billing_check_duration_seconds",
			Help:    "Duration of delinquency checks (hot path of every protected page load)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) ObserveCheck(start time.Time, blocked bool) {
	if m == nil {
		return
	}
	m.CheckDuration.Observe(time.Since(start).Seconds())
	if blocked {
		m.ChecksBlocked.Inc()
	} else {
		m.ChecksAllowed.Inc()
	}
}
