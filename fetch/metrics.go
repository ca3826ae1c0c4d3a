package fetch

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts upstream requests by method and outcome.
// A nil *Metrics records nothing.
type Metrics struct {
	requests   *prometheus.CounterVec
	rejections prometheus.Counter
}

// NewMetrics creates the fetch collectors and registers them on reg.
// Passing nil creates unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "etsi",
			Subsystem: "fetch",
			Name:      "requests_total",
			Help:      "Upstream artifact requests by method and outcome.",
		}, []string{"method", "outcome"}),
		rejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "etsi",
			Subsystem: "fetch",
			Name:      "breaker_rejections_total",
			Help:      "Requests rejected because a circuit breaker was open.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.rejections)
	}
	return m
}

func (m *Metrics) observe(method string, err error) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, outcome(err)).Inc()
}

func (m *Metrics) rejected() {
	if m == nil {
		return
	}
	m.rejections.Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrUpstreamDown):
		return "upstream_down"
	case errors.Is(err, ErrUnexpectedStatus):
		return "status"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}
