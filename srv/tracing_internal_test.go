package srv

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/propagators/aws/xray"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx/fxtest"
)

func TestNewExporter(t *testing.T) {
	t.Run("stdout exporter", func(t *testing.T) {
		exp, err := newExporter(context.Background(), "stdout")
		require.NoError(t, err)
		assert.NotNil(t, exp)
	})

	t.Run("empty defaults to stdout", func(t *testing.T) {
		exp, err := newExporter(context.Background(), "")
		require.NoError(t, err)
		assert.NotNil(t, exp)
	})

	t.Run("xrayudp exporter", func(t *testing.T) {
		exp, err := newExporter(context.Background(), "xrayudp")
		require.NoError(t, err)
		assert.NotNil(t, exp)
		require.NoError(t, exp.Shutdown(context.Background()))
	})

	t.Run("unsupported exporter returns error", func(t *testing.T) {
		_, err := newExporter(context.Background(), "invalid")
		require.EqualError(t, err, `unsupported SHTTP_OTEL_EXPORTER: "invalid" (supported: stdout, xrayudp, none)`)
	})
}

func TestNewTracerProvider(t *testing.T) {
	lc := fxtest.NewLifecycle(t)

	tp, err := NewTracerProvider(lc, testEnv{otelExp: "none"})
	require.NoError(t, err)
	_, span := tp.Tracer("test").Start(context.Background(), "op")
	assert.False(t, span.SpanContext().IsValid())

	tp, err = NewTracerProvider(lc, testEnv{})
	require.NoError(t, err)
	assert.IsType(t, &sdktrace.TracerProvider{}, tp)

	tp, err = NewTracerProvider(lc, testEnv{otelExp: "xrayudp"})
	require.NoError(t, err)
	_, span = tp.Tracer("test").Start(context.Background(), "op")
	// X-Ray trace IDs lead with the epoch seconds of the trace start.
	assert.True(t, span.SpanContext().IsValid())
	assert.NotZero(t, span.SpanContext().TraceID()[0]|span.SpanContext().TraceID()[1])
	span.End()

	_, err = NewTracerProvider(lc, testEnv{otelExp: "jaeger"})
	require.Error(t, err)

	lc.RequireStart().RequireStop()
}

func TestNewResource(t *testing.T) {
	res := newResource("my-service")

	found := false
	for _, attr := range res.Attributes() {
		if string(attr.Key) == "service.name" && attr.Value.AsString() == "my-service" {
			found = true
		}
	}
	assert.True(t, found, "expected service.name attribute in resource")
}

func TestWithTracing(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))

	var seen trace.SpanContext
	h := withTracing(tp, NewPropagator(testEnv{}), "svc", "/metrics")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = Span(r.Context()).SpanContext()
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/1", nil))
	assert.True(t, seen.IsValid())

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.False(t, seen.IsValid())

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /items/1", spans[0].Name())
}

func TestNewPropagator(t *testing.T) {
	t.Run("stdout uses trace context and baggage", func(t *testing.T) {
		fields := NewPropagator(testEnv{}).Fields()
		assert.Contains(t, fields, "traceparent")
		assert.Contains(t, fields, "baggage")
	})

	t.Run("xrayudp uses the x-ray header", func(t *testing.T) {
		prop := NewPropagator(testEnv{otelExp: "xrayudp"})
		assert.IsType(t, xray.Propagator{}, prop)
		assert.Equal(t, []string{"X-Amzn-Trace-Id"}, prop.Fields())
	})
}
