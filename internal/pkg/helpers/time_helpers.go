package helpers

import (
	"time"

	"github.com/yigit/collegerecords/internal/pkg/logger"
)

// ParseDuration parses a config duration such as "10s", falling back to
// fallback when the value is empty or malformed.
func ParseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		logger.Warn().Err(err).Str("value", value).Dur("fallback", fallback).Msg("Invalid duration, using fallback")
		return fallback
	}
	return duration
}
