package srv

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const readHeaderTimeout = 10 * time.Second

// ServerParams holds the dependencies for creating an HTTP server.
type ServerParams struct {
	fx.In

	Env        Environment
	Mux        *Mux
	Logger     *zap.Logger
	Registry   *prometheus.Registry
	TracerProv trace.TracerProvider
	Propagator propagation.TextMapPropagator
}

// NewServer creates an HTTP server that exposes the metrics endpoint next to the traced router.
func NewServer(params ServerParams) *http.Server {
	d := &requestDep{logger: params.Logger}
	metricsPath := params.Env.metricsPath()

	var handler http.Handler = params.Mux
	handler = withRequestDep(d)(handler)
	handler = withTracing(params.TracerProv, params.Propagator, params.Env.serviceName(), metricsPath)(handler)

	root := http.NewServeMux()
	root.Handle(metricsPath, promhttp.HandlerFor(params.Registry, promhttp.HandlerOpts{}))
	root.Handle("/", handler)

	return &http.Server{
		Addr:              net.JoinHostPort(params.Env.hostname(), fmt.Sprint(params.Env.port())),
		Handler:           root,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// startServerHook registers lifecycle hooks for the HTTP server.
func startServerHook(lc fx.Lifecycle, server *http.Server, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", server.Addr)
			if err != nil {
				return err
			}

			logger.Info("starting server", zap.String("addr", ln.Addr().String()))
			go func() {
				if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
					logger.Error("server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping server")
			return server.Shutdown(ctx)
		},
	})
}
