package srv

import (
	"net/http"

	"github.com/advdv/shttp"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Mux is an alias for shttp.ServeMux.
type Mux = shttp.ServeMux

// muxOptions translates the environment into router options.
func muxOptions(cfg MuxConfig) []shttp.Option {
	opts := []shttp.Option{
		shttp.WithFailure(cfg.FailureCode, cfg.FailureText),
		shttp.WithMaxBodyBytes(cfg.MaxBodyBytes),
	}
	if cfg.Lower {
		opts = append(opts, shttp.WithLower())
	}
	if cfg.NoCache {
		opts = append(opts, shttp.WithNoCache())
	}
	if cfg.HandlerTimeout > 0 {
		opts = append(opts, shttp.WithHandlerTimeout(cfg.HandlerTimeout))
	}
	for name, value := range cfg.Headers {
		opts = append(opts, shttp.WithHeader(http.CanonicalHeaderKey(name), value))
	}
	return opts
}

// NewMux creates the router configured from the environment. Router events are logged through
// logger and counted on metrics.
func NewMux(env Environment, logger *zap.Logger, metrics *shttp.Metrics) (*Mux, error) {
	opts := append(muxOptions(env.muxConfig()),
		shttp.WithLogger(NewZapLogger(logger)),
		shttp.WithMetrics(metrics),
	)

	mux := shttp.NewServeMux(opts...)
	if svc := env.routesService(); svc != "" {
		if err := mux.RegisterRouteList(svc); err != nil {
			return nil, errors.Wrap(err, "failed to register route list")
		}
	}

	return mux, nil
}
