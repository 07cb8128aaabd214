package srv

import (
	"github.com/advdv/shttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const metricsNamespace = "shttp"

// NewRegistry creates the registry served on SHTTP_METRICS_PATH, with the Go runtime and
// process collectors already registered.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// NewMetrics registers the dispatch metrics of the router on reg.
func NewMetrics(reg *prometheus.Registry) *shttp.Metrics {
	return shttp.NewMetrics(reg, metricsNamespace)
}
