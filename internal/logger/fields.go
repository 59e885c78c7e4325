package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Structured field keys shared by the AI and HTTP layers.
const (
	FieldProvider  = "ai_provider"
	FieldModel     = "ai_model"
	FieldRequestID = "request_id"
	FieldFilename  = "filename"
)

// WithCommonFields tags logger with the AI provider and model.
func WithCommonFields(logger *zap.Logger, provider, model string) *zap.Logger {
	return with(logger, FieldProvider, provider, FieldModel, model)
}

// WithRequest tags logger with the request ID and, when known, the uploaded
// filename.
func WithRequest(logger *zap.Logger, requestID, filename string) *zap.Logger {
	return with(logger, FieldRequestID, requestID, FieldFilename, filename)
}

// with attaches key/value pairs to logger, skipping blank values. A nil
// logger becomes a no-op one.
func with(logger *zap.Logger, pairs ...string) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	fields := make([]zap.Field, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		if value := strings.TrimSpace(pairs[i+1]); value != "" {
			fields = append(fields, zap.String(pairs[i], value))
		}
	}

	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}
