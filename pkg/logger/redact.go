package logger

import "go.uber.org/zap"

const mask = "****"

var sensitiveFields = map[string]struct{}{
	"password":         {},
	"current_password": {},
	"new_password":     {},
	"access":           {},
	"refresh":          {},
}

// Redact returns a copy of payload with sensitive values replaced by a mask.
// Keys that are absent stay absent.
func Redact(payload map[string]any) map[string]any {
	safe := make(map[string]any, len(payload))
	for k, v := range payload {
		if _, ok := sensitiveFields[k]; ok {
			safe[k] = mask
			continue
		}
		safe[k] = v
	}
	return safe
}

// Payload is a zap field carrying a redacted request payload.
func Payload(payload map[string]any) zap.Field {
	return zap.Any("payload", Redact(payload))
}
