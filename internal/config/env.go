package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/pawmatch/internal/platform/logging"
	"github.com/riskibarqy/pawmatch/internal/platform/resilience"
)

// envParser keeps the first parse failure so Load can read every key and
// report once.
type envParser struct {
	err error
}

func (p *envParser) fail(key string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("parse %s: %w", key, err)
	}
}

func (p *envParser) boolean(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(key, err)
		return fallback
	}
	return value
}

func (p *envParser) duration(key, fallback string) time.Duration {
	value, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		p.fail(key, err)
		return 0
	}
	return value
}

func (p *envParser) positiveDuration(key, fallback string) time.Duration {
	value := p.duration(key, fallback)
	if value <= 0 && p.err == nil {
		p.err = fmt.Errorf("%s must be > 0", key)
	}
	return value
}

func (p *envParser) minInt(key string, fallback, minValue int) int {
	value, err := getEnvAsInt(key, fallback)
	if err != nil {
		p.fail(key, err)
		return fallback
	}
	if value < minValue && p.err == nil {
		p.err = fmt.Errorf("%s must be >= %d", key, minValue)
	}
	return value
}

// circuit reads <PREFIX>_CIRCUIT_{ENABLED,FAILURE_COUNT,OPEN_TIMEOUT,HALF_OPEN_MAX_REQ}.
func (p *envParser) circuit(prefix string) resilience.CircuitBreakerConfig {
	return resilience.CircuitBreakerConfig{
		Enabled:          p.boolean(prefix+"_CIRCUIT_ENABLED", true),
		FailureThreshold: p.minInt(prefix+"_CIRCUIT_FAILURE_COUNT", 5, 1),
		OpenTimeout:      p.positiveDuration(prefix+"_CIRCUIT_OPEN_TIMEOUT", "15s"),
		HalfOpenMaxReq:   p.minInt(prefix+"_CIRCUIT_HALF_OPEN_MAX_REQ", 2, 1),
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	return strconv.Atoi(value)
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	for _, item := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(item), "=")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(key), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(value), "\"'")
		}
	}

	return ""
}
