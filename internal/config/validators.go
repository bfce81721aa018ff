package config

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cristianoliveira/rosterdesk/internal/colors"
)

// Validator validates and normalizes a configuration value.
// Returns the normalized value and an error if validation fails.
type Validator func(key, value, defaultValue string) (normalized string, err error)

// validatorRegistry manages the set of registered validators.
type validatorRegistry struct {
	mu         sync.RWMutex
	validators map[string]Validator
}

// registry is the global validator registry.
var registry = &validatorRegistry{
	validators: make(map[string]Validator),
}

// RegisterValidator registers a validator for a configuration key.
// Panics if a validator is already registered for the key.
func RegisterValidator(key string, validator Validator) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if _, exists := registry.validators[key]; exists {
		panic(fmt.Sprintf("validator already registered for key: %s", key))
	}
	registry.validators[key] = validator
}

// getValidator returns the validator for a key, or nil if not registered.
func getValidator(key string) Validator {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	return registry.validators[key]
}

// fallback warns that value was rejected for key and hands back the default.
func fallback(key, value, defaultValue, want string) (string, error) {
	colors.Warning(fmt.Sprintf("invalid %s value '%s': %s; using default: %s", key, value, want, defaultValue))
	return defaultValue, nil
}

// PositiveIntValidator accepts integers greater than zero.
func PositiveIntValidator() Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		if n, err := strconv.Atoi(value); err != nil || n <= 0 {
			return fallback(key, value, defaultValue, "must be a positive integer")
		}
		return value, nil
	}
}

// EnumValidator accepts one of allowed, compared case-insensitively.
func EnumValidator(allowed map[string]bool) Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		lower := strings.ToLower(value)
		if !allowed[lower] {
			return fallback(key, value, defaultValue, "must be one of: "+allowedValues(allowed))
		}
		return lower, nil
	}
}

// BoolValidator normalizes 1/yes/on and 0/no/off to true and false.
func BoolValidator() Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		switch b := normalizeBool(value); b {
		case "true", "false":
			return b, nil
		}
		return fallback(key, value, defaultValue, "must be a boolean (true/false, yes/no, on/off, 1/0)")
	}
}

// DurationValidator accepts positive Go durations such as 500ms or 30s.
func DurationValidator() Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return fallback(key, value, defaultValue, "must be a positive duration such as 10s")
		}
		return d.String(), nil
	}
}

// URLValidator accepts absolute http and https URLs.
func URLValidator() Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fallback(key, value, defaultValue, "must be an http(s) URL")
		}
		return strings.TrimRight(value, "/"), nil
	}
}

// initValidators registers all configuration validators.
func initValidators() {
	positiveIntValidator := PositiveIntValidator()
	RegisterValidator("viewer_id", positiveIntValidator)
	RegisterValidator("http_retries", positiveIntValidator)
	RegisterValidator("recent_activity_limit", positiveIntValidator)

	RegisterValidator("backend", EnumValidator(map[string]bool{"http": true, "sqlite": true}))
	RegisterValidator("api_url", URLValidator())
	RegisterValidator("request_timeout", DurationValidator())

	boolValidator := BoolValidator()
	RegisterValidator("debug", boolValidator)
	RegisterValidator("quiet", boolValidator)

	RegisterValidator("logging_enabled", boolValidator)
	RegisterValidator("logging_level", EnumValidator(map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}))
	RegisterValidator("logging_max_files", positiveIntValidator)
}

// normalizeBool maps the accepted spellings to "true" or "false" and returns
// anything else unchanged.
func normalizeBool(val string) string {
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return "true"
	case "0", "false", "no", "off":
		return "false"
	}
	return val
}

func allowedValues(allowed map[string]bool) string {
	values := make([]string, 0, len(allowed))
	for k := range allowed {
		values = append(values, k)
	}
	sort.Strings(values)
	return strings.Join(values, ", ")
}
