package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr          string
	Environment   string
	JWTSigningKey string
	JWTIssuer     string
	// GenesisPath points at the YAML file that seeds registry settings on first start.
	GenesisPath string
	// AdminOverride replaces the genesis admin address when set.
	AdminOverride string
	// TxTimeout bounds every registry transaction.
	TxTimeout time.Duration

	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Outbox   OutboxConfig
	Limits   RateLimitConfig
}

// DatabaseConfig selects the persistence backend. An empty URL keeps every store in memory.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig configures the primary alias cache. An empty URL disables caching.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	AliasTTL     time.Duration
}

// KafkaConfig configures the settlement message publisher. No brokers means
// messages are only logged.
type KafkaConfig struct {
	Brokers           []string
	Topic             string
	Partitions        int32
	ReplicationFactor int16
}

// OutboxConfig tunes the settlement outbox relay.
type OutboxConfig struct {
	PollInterval time.Duration
	BatchSize    int
}

// RateLimitConfig bounds registry writes per caller. Zero requests leaves a
// class unlimited.
type RateLimitConfig struct {
	Disabled        bool
	MintsPerWindow  int
	WritesPerWindow int
	Window          time.Duration
}

// IsDev reports whether the process runs with developer defaults.
func (s Server) IsDev() bool {
	return s.Environment == "" || s.Environment == "dev"
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:          envString("WHOAMI_ADDR", ":8080"),
		Environment:   envString("WHOAMI_ENV", "dev"),
		JWTSigningKey: envString("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		JWTIssuer:     envString("JWT_ISSUER", "whoami"),
		GenesisPath:   envString("WHOAMI_GENESIS", "genesis.yaml"),
		AdminOverride: os.Getenv("WHOAMI_ADMIN"),
		TxTimeout:     envDuration("WHOAMI_TX_TIMEOUT", 5*time.Second),
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			AliasTTL:     envDuration("REDIS_ALIAS_TTL", 5*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers:           envList("KAFKA_BROKERS"),
			Topic:             envString("KAFKA_SETTLEMENT_TOPIC", "whoami.settlements"),
			Partitions:        int32(envInt("KAFKA_TOPIC_PARTITIONS", 3)),
			ReplicationFactor: int16(envInt("KAFKA_TOPIC_REPLICATION", 1)),
		},
		Outbox: OutboxConfig{
			PollInterval: envDuration("OUTBOX_POLL_INTERVAL", 2*time.Second),
			BatchSize:    envInt("OUTBOX_BATCH_SIZE", 100),
		},
		Limits: RateLimitConfig{
			Disabled:        envBool("RATE_LIMIT_DISABLED", false),
			MintsPerWindow:  envInt("RATE_LIMIT_MINTS", 10),
			WritesPerWindow: envInt("RATE_LIMIT_WRITES", 60),
			Window:          envDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
	}
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func envList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for part := range strings.SplitSeq(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
