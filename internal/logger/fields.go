package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Structured log keys shared by every package.
const (
	FieldProvider = "ai_provider"
	FieldModel    = "ai_model"
	FieldRecordID = "record_id"
	FieldTag      = "tag"
)

type StringField struct {
	Key   string
	Value string
}

// StringFields converts key/value pairs into zap fields. Entries with a blank
// key or value are dropped.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		value := strings.TrimSpace(field.Value)
		if key == "" || value == "" {
			continue
		}
		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches fields to logger, falling back to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// WithModel tags a logger with the AI provider and model in use.
func WithModel(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)...)
}

// WithRecord tags a logger with the stored resume it works on.
func WithRecord(logger *zap.Logger, id string) *zap.Logger {
	return WithFields(logger, StringFields(StringField{Key: FieldRecordID, Value: id})...)
}

func RecordID(id string) zap.Field {
	return zap.String(FieldRecordID, id)
}

func Tag(tag string) zap.Field {
	return zap.String(FieldTag, tag)
}
