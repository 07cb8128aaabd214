package srv

import (
	"context"
	"time"

	"github.com/advdv/shttp"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const awsConfigTimeout = 10 * time.Second

// NewAWSConfig loads the default AWS SDK v2 configuration.
func NewAWSConfig(ctx context.Context) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx)
}

// provideAWSConfig is an fx provider that loads AWS config with a timeout.
// It instruments the config with OpenTelemetry for AWS SDK tracing.
func provideAWSConfig(tp trace.TracerProvider, prop propagation.TextMapPropagator) (aws.Config, error) {
	ctx, cancel := context.WithTimeout(context.Background(), awsConfigTimeout)
	defer cancel()
	cfg, err := NewAWSConfig(ctx)
	if err != nil {
		return cfg, err
	}
	otelaws.AppendMiddlewares(&cfg.APIOptions,
		otelaws.WithTracerProvider(tp),
		otelaws.WithTextMapPropagator(prop),
	)
	return cfg, nil
}

// WithS3Static serves files below pattern from SHTTP_STATIC_BUCKET, with keys prefixed by
// SHTTP_STATIC_PREFIX. The route is not registered when no bucket is configured.
//
//	srv.NewApp[Env](routing, srv.WithS3Static("/assets/"))
func WithS3Static(pattern string, opts ...shttp.RouteOption) Option {
	return WithFx(
		fx.Provide(func(cfg aws.Config) *s3.Client { return s3.NewFromConfig(cfg) }),
		fx.Invoke(func(env Environment, mux *Mux, client *s3.Client, logger *zap.Logger) {
			bucket := env.staticBucket()
			if bucket == "" {
				logger.Warn("static bucket not configured, skipping route", zap.String("pattern", pattern))
				return
			}
			mux.Static(pattern, shttp.NewS3Source(client, bucket, env.staticPrefix()), opts...)
		}),
	)
}
