// Package observability wires up the three ambient concerns every request
// passes through: structured logging (zap), metrics (prometheus), and
// distributed tracing (OpenTelemetry).
package observability

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a zap logger whose format depends on environment: JSON
// in production-like environments, a human-readable console encoder
// otherwise.
func NewLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg.Build()
}
