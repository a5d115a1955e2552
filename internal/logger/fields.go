package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldBatch is the structured log field key for a matching batch identifier.
	FieldBatch = "batch_id"
	// FieldSeeker is the structured log field key for the seeker user id.
	FieldSeeker = "seeker_id"
	// FieldCandidate is the structured log field key for the candidate user id.
	FieldCandidate = "candidate_id"
	// FieldProvider is the structured log field key for the inference provider name.
	FieldProvider = "analyzer_provider"
	// FieldModel is the structured log field key for the inference model identifier.
	FieldModel = "analyzer_model"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// If the logger is nil or no fields are supplied, the input logger is returned
// unchanged, defaulting to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// PairFields returns the seeker and candidate fields of a compared pair.
func PairFields(seekerID, candidateID string) []zap.Field {
	return StringFields(
		StringField{Key: FieldSeeker, Value: seekerID},
		StringField{Key: FieldCandidate, Value: candidateID},
	)
}

// AnalyzerFields returns the fields describing an inference provider and model.
func AnalyzerFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

// WithAnalyzerFields attaches the analyzer fields to the provided logger.
// If the logger is nil, a no-op logger is created to avoid panics.
func WithAnalyzerFields(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, AnalyzerFields(provider, model)...)
}
