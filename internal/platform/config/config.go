package config

import (
	"os"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string
	RedisAddr   string

	AdminToken       string
	SessionSecret    string
	SessionTTL       time.Duration
	VerificationTTL  time.Duration
	OutboxBatchSize  int
	OutboxPollPeriod time.Duration

	EnableVotedHintCache bool
	EnableOutboxRelay    bool
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "eduvote"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "eduvote-dev-secret"
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),

		AdminToken:       os.Getenv("ADMIN_TOKEN"),
		SessionSecret:    secret,
		SessionTTL:       envDuration("SESSION_TTL", 12*time.Hour),
		VerificationTTL:  envDuration("VERIFICATION_TTL", 24*time.Hour),
		OutboxBatchSize:  100,
		OutboxPollPeriod: envDuration("OUTBOX_POLL_PERIOD", 2*time.Second),

		EnableVotedHintCache: envBool("ENABLE_VOTED_HINT_CACHE", true),
		EnableOutboxRelay:    envBool("ENABLE_OUTBOX_RELAY", true),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
