package srv

import (
	"github.com/advdv/shttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a zap logger configured from the environment.
// SHTTP_LOG_LEVEL controls the level (debug, info, warn, error).
func NewLogger(env Environment) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(env.logLevel())
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

type zapLogger struct{ *zap.Logger }

func (l zapLogger) LogUnhandledServeError(err error) {
	l.Logger.Error("unhandled server error", zap.Error(err))
}

func (l zapLogger) LogWriteError(err error) {
	l.Logger.Error("error while writing response", zap.Error(err))
}

func (l zapLogger) LogResponseWarning(msg string) {
	l.Logger.Warn(msg)
}

// NewZapLogger reports router events through l.
func NewZapLogger(l *zap.Logger) shttp.Logger {
	return zapLogger{l.Named("shttp")}
}
