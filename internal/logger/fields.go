package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	FieldJobID    = "job_id"
	FieldRunID    = "run_id"
	FieldStage    = "stage"
	FieldProvider = "llm_provider"
	FieldModel    = "llm_model"
)

// StringFields converts key/value pairs into zap fields, skipping entries whose
// key or value is blank.
func StringFields(kv ...string) []zap.Field {
	result := make([]zap.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key := strings.TrimSpace(kv[i])
		value := strings.TrimSpace(kv[i+1])
		if key == "" || value == "" {
			continue
		}
		result = append(result, zap.String(key, value))
	}
	return result
}

// WithProvider tags l with the LLM provider and model.
func WithProvider(l *zap.Logger, provider, model string) *zap.Logger {
	fields := StringFields(FieldProvider, provider, FieldModel, model)
	if len(fields) == 0 {
		return OrNop(l)
	}
	return OrNop(l).With(fields...)
}

// WithRun tags l with the job and ranking run being processed.
func WithRun(l *zap.Logger, jobID uint, runID string) *zap.Logger {
	return OrNop(l).With(zap.Uint(FieldJobID, jobID), zap.String(FieldRunID, runID))
}
