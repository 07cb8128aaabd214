package srv

import (
	"net/http"

	"github.com/carlmjohnson/requests"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// NewHTTPTransport creates an HTTP RoundTripper instrumented with OpenTelemetry tracing. Client
// spans are named "<METHOD> <host><path>" so they line up with the server spans of withTracing.
func NewHTTPTransport(tp trace.TracerProvider, prop propagation.TextMapPropagator) http.RoundTripper {
	return otelhttp.NewTransport(http.DefaultTransport,
		otelhttp.WithTracerProvider(tp),
		otelhttp.WithPropagators(prop),
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Host + r.URL.Path
		}),
	)
}

// newRequestBuilder creates a [requests.Builder] on the instrumented transport that identifies
// the calling service. Handlers get one from [Runtime.NewRequest].
func newRequestBuilder(t http.RoundTripper, service string) *requests.Builder {
	b := requests.New().Transport(t)
	if service != "" {
		b = b.UserAgent(service + " (shttp)")
	}
	return b
}
