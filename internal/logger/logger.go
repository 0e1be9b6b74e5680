package logger

import (
	"strings"

	"go.uber.org/zap"
)

var base = zap.NewNop().Sugar()

// Init builds the process-wide logger. Mode "prod"/"production" selects the
// JSON production config, anything else the development console config.
func Init(mode string) error {
	var cfg zap.Config

	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}

	zapLogger, err := cfg.Build()
	if err != nil {
		return err
	}

	base = zapLogger.Sugar()
	return nil
}

func Sync() {
	_ = base.Sync()
}

func Debug(msg string, keysAndValues ...interface{}) {
	base.Debugw(msg, keysAndValues...)
}

func Info(msg string, keysAndValues ...interface{}) {
	base.Infow(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...interface{}) {
	base.Warnw(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...interface{}) {
	base.Errorw(msg, keysAndValues...)
}

func Fatal(msg string, keysAndValues ...interface{}) {
	base.Fatalw(msg, keysAndValues...)
}
