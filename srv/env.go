package srv

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap/zapcore"
)

// Environment defines the interface that all environment configurations must implement.
// Embed BaseEnvironment in your struct to satisfy this interface.
type Environment interface {
	port() int
	hostname() string
	serviceName() string
	logLevel() zapcore.Level
	otelExporter() string
	metricsPath() string
	routesService() string
	staticBucket() string
	staticPrefix() string
	muxConfig() MuxConfig
}

// MuxConfig holds the router defaults that can be set from the environment.
type MuxConfig struct {
	Lower          bool              `env:"SHTTP_LOWER"`
	NoCache        bool              `env:"SHTTP_NO_CACHE"`
	FailureCode    int               `env:"SHTTP_FAILURE_CODE"`
	FailureText    string            `env:"SHTTP_FAILURE_TEXT"`
	HandlerTimeout time.Duration     `env:"SHTTP_HANDLER_TIMEOUT"`
	MaxBodyBytes   int64             `env:"SHTTP_MAX_BODY_BYTES"`
	Headers        map[string]string `env:"SHTTP_HEADERS"`
}

// BaseEnvironment contains the environment variables every server needs.
// Embed this in your custom environment struct.
type BaseEnvironment struct {
	Port          int           `env:"SHTTP_PORT,required"`
	Hostname      string        `env:"SHTTP_HOSTNAME"`
	ServiceName   string        `env:"SHTTP_SERVICE_NAME,required"`
	LogLevel      zapcore.Level `env:"SHTTP_LOG_LEVEL" envDefault:"info"`
	OtelExporter  string        `env:"SHTTP_OTEL_EXPORTER" envDefault:"stdout"`
	MetricsPath   string        `env:"SHTTP_METRICS_PATH" envDefault:"/metrics"`
	RoutesService string        `env:"SHTTP_ROUTES_SERVICE"`
	// StaticBucket enables serving files from S3 for routes registered with WithS3Static.
	StaticBucket string `env:"SHTTP_STATIC_BUCKET"`
	StaticPrefix string `env:"SHTTP_STATIC_PREFIX"`

	Mux MuxConfig
}

func (e BaseEnvironment) port() int {
	return e.Port
}

func (e BaseEnvironment) hostname() string {
	return e.Hostname
}

func (e BaseEnvironment) serviceName() string {
	return e.ServiceName
}

func (e BaseEnvironment) logLevel() zapcore.Level {
	return e.LogLevel
}

func (e BaseEnvironment) otelExporter() string {
	return e.OtelExporter
}

func (e BaseEnvironment) metricsPath() string {
	return e.MetricsPath
}

func (e BaseEnvironment) routesService() string {
	return e.RoutesService
}

func (e BaseEnvironment) staticBucket() string {
	return e.StaticBucket
}

func (e BaseEnvironment) staticPrefix() string {
	return e.StaticPrefix
}

func (e BaseEnvironment) muxConfig() MuxConfig {
	return e.Mux
}

var _ Environment = BaseEnvironment{}

// ParseEnv parses environment variables into the given Environment type.
func ParseEnv[E Environment]() func() (E, error) {
	return func() (e E, err error) {
		if err := env.Parse(&e); err != nil {
			return e, errors.Wrap(err, "failed to parse environment")
		}
		return e, nil
	}
}
