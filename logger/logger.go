package logger

import (
	"go.uber.org/zap"
)

var log *zap.SugaredLogger = zap.NewNop().Sugar()

// Init builds the process-wide logger. Production JSON output by default,
// human-readable console output when env is "development".
func Init(service, env string) error {
	cfg := zap.NewProductionConfig()
	if env == "development" {
		cfg = zap.NewDevelopmentConfig()
	}

	l, err := cfg.Build(
		zap.Fields(
			zap.String("service", service),
			zap.String("env", env),
		),
	)
	if err != nil {
		return err
	}
	log = l.Sugar()
	return nil
}

// Sync flushes buffered log entries. Call before process exit.
func Sync() {
	_ = log.Sync()
}

// Infow logs a message with structured key-value pairs.
func Infow(msg string, keysAndValues ...interface{}) {
	log.Infow(msg, keysAndValues...)
}

// Warnw logs a warning with structured key-value pairs.
func Warnw(msg string, keysAndValues ...interface{}) {
	log.Warnw(msg, keysAndValues...)
}

// Errorw logs an error with structured key-value pairs.
func Errorw(msg string, keysAndValues ...interface{}) {
	log.Errorw(msg, keysAndValues...)
}

// Fatalf logs a formatted fatal error and exits the process.
func Fatalf(format string, v ...interface{}) {
	log.Fatalf(format, v...)
}
