package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	Service string
	Env     string
	Level   string
}

// New builds a JSON logger tagged with service and env and installs it as
// the zap global.
func New(opts Options) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if opts.Env == "dev" {
		cfg = zap.NewDevelopmentConfig()
		cfg.Encoding = "json"
	}
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(opts.Level))
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	base, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	base = base.With(
		zap.String("service", opts.Service),
		zap.String("env", opts.Env),
	)

	zap.ReplaceGlobals(base)
	return base, nil
}

func parseLevel(lvl string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
