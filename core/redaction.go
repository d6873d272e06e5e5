package core

import "strings"

const RedactedValue = "[REDACTED]"

// RedactCredentialPayload returns a copy safe for logs and warning events:
// secret-bearing keys are masked, traceability keys pass through.
func RedactCredentialPayload(payload CredentialPayload) map[string]any {
	if len(payload) == 0 {
		return map[string]any{}
	}
	return redactSensitiveMap(payload)
}

func RedactSensitiveMap(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return map[string]any{}
	}
	return redactSensitiveMap(fields)
}

func redactSensitiveMap(source map[string]any) map[string]any {
	target := make(map[string]any, len(source))
	for key, value := range source {
		if shouldRedactKey(key) {
			target[key] = RedactedValue
			continue
		}
		target[key] = redactSensitiveValue(value)
	}
	return target
}

func redactSensitiveValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return redactSensitiveMap(typed)
	case CredentialPayload:
		return redactSensitiveMap(typed)
	case []any:
		out := make([]any, len(typed))
		for i := range typed {
			out[i] = redactSensitiveValue(typed[i])
		}
		return out
	default:
		return value
	}
}

func shouldRedactKey(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" || isTraceabilityKey(key) {
		return false
	}
	sensitiveTokens := []string{
		"password",
		"secret",
		"token",
		"authorization",
		"api_key",
		"apikey",
		"access_key",
		"credential",
		"sid",
		"signature",
	}
	for _, token := range sensitiveTokens {
		if strings.Contains(key, token) {
			return true
		}
	}
	return false
}

func isTraceabilityKey(key string) bool {
	switch key {
	case "org_id",
		"vendor_type_id",
		"vendor_slug",
		"instance_slug",
		"short_code",
		"event_type",
		"trace_id",
		"request_id":
		return true
	default:
		return false
	}
}
