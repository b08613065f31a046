package helpers

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

// Logger reports environment values that could not be parsed.
var Logger = log.New(os.Stderr, "[HELPERS]: ", log.Ldate|log.Ltime)

func invalidEnv(key, raw string, defaultValue interface{}) {
	Logger.Printf("Ignoring %s=%q: not a valid value, using default %v", key, raw, defaultValue)
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetEnvInt falls back to defaultValue when the variable is unset or not a
// number. Malformed values are logged.
func GetEnvInt(key string, defaultValue int) int {
	raw := GetEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		invalidEnv(key, raw, defaultValue)
		return defaultValue
	}
	return value
}

func GetEnvBool(key string, defaultValue bool) bool {
	raw := GetEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		invalidEnv(key, raw, defaultValue)
		return defaultValue
	}
	return value
}

// GetEnvDuration accepts Go durations ("1500ms") and plain seconds ("2").
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := GetEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	invalidEnv(key, raw, defaultValue)
	return defaultValue
}

func ToString(v interface{}) string {
	return fmt.Sprint(v)
}
