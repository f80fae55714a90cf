package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func levelFromString(l string) zapcore.Level {
	switch l {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New builds the JSON logger every binary uses, tagged with the service name.
// Level comes from LOG_LEVEL; LOG_DEV=1 switches to the development encoder.
func New(service string) (*zap.Logger, error) {
	if os.Getenv("LOG_DEV") == "1" {
		c := zap.NewDevelopmentConfig()
		c.Level = zap.NewAtomicLevelAt(levelFromString(os.Getenv("LOG_LEVEL")))
		logger, err := c.Build()
		if err != nil {
			return nil, err
		}
		return logger.Named(service), nil
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(os.Stdout),
		levelFromString(os.Getenv("LOG_LEVEL")),
	)
	return zap.New(core, zap.AddCaller()).Named(service), nil
}
