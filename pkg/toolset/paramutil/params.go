package paramutil

import (
	"fmt"
	"math"
	"time"
)

// ExtractRequiredString extracts a required string parameter from params map.
// Returns ErrMissingParameter if the parameter is missing or empty.
func ExtractRequiredString(params map[string]interface{}, key string) (string, error) {
	if v, ok := params[key].(string); ok && v != "" {
		return v, nil
	}
	return "", fmt.Errorf("%w: %s", ErrMissingParameter, key)
}

// ExtractOptionalString extracts an optional string parameter.
// Returns empty string if the parameter is missing or empty.
func ExtractOptionalString(params map[string]interface{}, key string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return ""
}

// ExtractOptionalInt64 extracts an optional int64 parameter
func ExtractOptionalInt64(params map[string]interface{}, key string) *int64 {
	switch v := params[key].(type) {
	case float64:
		val := int64(v)
		return &val
	case int64:
		return &v
	case int:
		val := int64(v)
		return &val
	}
	return nil
}

// ExtractPositiveInt64 is ExtractOptionalInt64 that rejects zero, negative and
// out-of-range values.
func ExtractPositiveInt64(params map[string]interface{}, key string) (*int64, error) {
	if f, ok := params[key].(float64); ok && f >= math.MaxInt64 {
		return nil, fmt.Errorf("%w: %s is out of range, got %g", ErrInvalidParameter, key, f)
	}
	v := ExtractOptionalInt64(params, key)
	if v != nil && *v <= 0 {
		return nil, fmt.Errorf("%w: %s must be greater than 0, got %d", ErrInvalidParameter, key, *v)
	}
	return v, nil
}

// ExtractOptionalDuration parses a Go duration string such as "10m" or "1h30m".
// Returns 0 when the parameter is absent or empty.
func ExtractOptionalDuration(params map[string]interface{}, key string) (time.Duration, error) {
	raw := ExtractOptionalString(params, key)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidParameter, key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: %s must not be negative, got %s", ErrInvalidParameter, key, raw)
	}
	return d, nil
}

// ValidateFormat validates that the format is one of the supported formats.
// Formats are matched exactly, callers lowercase user input first.
func ValidateFormat(format string) error {
	switch format {
	case FormatJSON, FormatYAML, FormatTable:
		return nil
	default:
		return fmt.Errorf("%w: %s (supported: json, yaml, table)", ErrInvalidFormat, format)
	}
}
