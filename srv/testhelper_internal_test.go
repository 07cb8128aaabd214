package srv

import (
	"go.uber.org/zap/zapcore"
)

type testEnv struct {
	level   zapcore.Level
	otelExp string
	routes  string
	mux     MuxConfig
}

func (e testEnv) port() int               { return 8080 }
func (e testEnv) hostname() string        { return "localhost" }
func (e testEnv) serviceName() string     { return "test" }
func (e testEnv) logLevel() zapcore.Level { return e.level }
func (e testEnv) otelExporter() string {
	if e.otelExp == "" {
		return "stdout"
	}
	return e.otelExp
}
func (e testEnv) metricsPath() string   { return "/metrics" }
func (e testEnv) routesService() string { return e.routes }
func (e testEnv) staticBucket() string  { return "" }
func (e testEnv) staticPrefix() string  { return "" }
func (e testEnv) muxConfig() MuxConfig  { return e.mux }
