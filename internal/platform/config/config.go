package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	PostgresDSN  string
	KafkaBrokers []string

	JWTSecret     string
	TokenLifespan time.Duration

	AllowedOrigins []string

	ErasureRelayInterval  time.Duration
	ErasureRelayBatchSize int

	EnableDemoUsers    bool
	EnableErasureRelay bool
	RunMigrations      bool
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "faas"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "faas-demo-secret"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	var origins []string
	for _, value := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			origins = append(origins, value)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	return Config{
		ServiceName:  service,
		HTTPPort:     port,
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		KafkaBrokers: brokers,

		JWTSecret:     secret,
		TokenLifespan: envDuration("TOKEN_LIFESPAN", 8*time.Hour),

		AllowedOrigins: origins,

		ErasureRelayInterval:  envDuration("ERASURE_RELAY_INTERVAL", 5*time.Second),
		ErasureRelayBatchSize: envInt("ERASURE_RELAY_BATCH_SIZE", 100),

		EnableDemoUsers:    envBool("ENABLE_DEMO_USERS", true),
		EnableErasureRelay: envBool("ENABLE_ERASURE_RELAY", true),
		RunMigrations:      envBool("RUN_MIGRATIONS", true),
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

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}
