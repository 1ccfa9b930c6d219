package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap logger for the given environment and replaces the zap globals.
func New(env string) (*zap.Logger, error) {
	l, err := build(env)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(l)
	return l, nil
}

func build(env string) (*zap.Logger, error) {
	switch env {
	case "production":
		return zap.NewProduction()
	case "local":
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		return cfg.Build()
	case "test":
		return zap.NewNop(), nil
	default:
		return zap.NewDevelopment()
	}
}

// MaskPhone оставляет первые 5 символов номера, остальное скрываем.
func MaskPhone(phone string) string {
	if len(phone) <= 5 {
		return phone + "***"
	}
	return phone[:5] + "***"
}
