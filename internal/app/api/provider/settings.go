package provider

import (
	"fmt"
	"strconv"
	"strings"
)

// Settings carries provider-specific options, as read from env or the providers YAML file.
type Settings map[string]interface{}

// String returns the setting as a string, or def when absent or blank.
func (s Settings) String(key, def string) string {
	v, ok := s[key]
	if !ok || v == nil {
		return def
	}
	str := strings.TrimSpace(fmt.Sprint(v))
	if str == "" {
		return def
	}
	return str
}

// Int returns the setting as an int, or def when absent or malformed.
func (s Settings) Int(key string, def int) int {
	switch v := s[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

// Float returns the setting as a float64, or def when absent or malformed.
func (s Settings) Float(key string, def float64) float64 {
	switch v := s[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return def
}

// Bool returns the setting as a bool, or def when absent or malformed.
func (s Settings) Bool(key string, def bool) bool {
	switch v := s[key].(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return def
}

// Merge returns a copy of s overlaid with the non-empty values of other.
func (s Settings) Merge(other Settings) Settings {
	out := make(Settings, len(s)+len(other))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range other {
		if str, ok := v.(string); ok && str == "" {
			continue
		}
		out[k] = v
	}
	return out
}
