package shttp

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Dispatch outcomes as recorded in the "outcome" label.
const (
	OutcomeResponded = "responded"
	OutcomeFailed    = "failed"
	OutcomeExhausted = "exhausted"
)

// Metrics records dispatch statistics.
type Metrics struct {
	requestsTotal    *prometheus.CounterVec
	handlerDuration  *prometheus.HistogramVec
	chainHopsTotal   prometheus.Counter
	handlerErrors    *prometheus.CounterVec
	writeErrorsTotal prometheus.Counter
}

// NewMetrics registers the dispatch metrics with reg under the given namespace.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of dispatched requests by outcome and status",
		}, []string{"outcome", "status"}),

		handlerDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "handler_duration_seconds",
			Help:      "Route handler duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),

		chainHopsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chain_hops_total",
			Help:      "Total number of requests passed on to a next route",
		}),

		handlerErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handler_errors_total",
			Help:      "Total number of handler errors and panics",
		}, []string{"route"}),

		writeErrorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "write_errors_total",
			Help:      "Total number of responses that failed while writing",
		}),
	}
}

func (m *Metrics) observeHandler(route string, d time.Duration) {
	if m == nil {
		return
	}
	m.handlerDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Metrics) countRequest(outcome string, status int) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(outcome, strconv.Itoa(status)).Inc()
}

func (m *Metrics) countHop() {
	if m == nil {
		return
	}
	m.chainHopsTotal.Inc()
}

func (m *Metrics) countHandlerError(route string) {
	if m == nil {
		return
	}
	m.handlerErrors.WithLabelValues(route).Inc()
}

func (m *Metrics) countWriteError() {
	if m == nil {
		return
	}
	m.writeErrorsTotal.Inc()
}
