package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures process configuration. FromEnv builds it from environment
// variables so main stays lean.
type Config struct {
	Addr          string
	LogLevel      string
	JWTSigningKey string

	DatabaseURL string

	Redis RedisConfig

	// KafkaBrokers enables the Kafka audit sink when non-empty.
	KafkaBrokers    []string
	KafkaAuditTopic string
}

// RedisConfig configures the optional display-counter cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	cfg := Config{
		Addr:            envOr("CHORALE_ADDR", ":8080"),
		LogLevel:        envOr("CHORALE_LOG_LEVEL", "info"),
		JWTSigningKey:   envOr("CHORALE_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		KafkaAuditTopic: envOr("CHORALE_KAFKA_AUDIT_TOPIC", "chorale.audit"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
