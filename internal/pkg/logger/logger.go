// Package logger builds the process-wide zap logger.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Standard field names for structured logging
const (
	FieldRequestID     = "request_id"
	FieldUserID        = "user_id"
	FieldJobID         = "job_id"
	FieldApplicationID = "application_id"
	FieldPaymentID     = "payment_id"
	FieldOrderID       = "order_id"
	FieldWorkerID      = "worker_id"
	FieldFrom          = "from"
	FieldTo            = "to"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldStatus        = "status"
	FieldLatency       = "latency"
	FieldIP            = "ip"
)

// New returns a development logger in dev mode and a JSON production
// logger otherwise
func New(mode string) (*zap.Logger, error) {
	if mode == "prod" {
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "time"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return cfg.Build()
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg.Build()
}

// Nop returns a logger that discards everything (tests)
func Nop() *zap.Logger {
	return zap.NewNop()
}
