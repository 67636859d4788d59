package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	pstrings "caseflow/pkg/platform/strings"
)

// Config captures everything the server needs from its environment.
// FromEnv builds it so main stays lean.
type Config struct {
	Addr          string
	DatabaseURL   string
	JWTSigningKey string

	Kafka    Kafka
	Redis    RedisConfig
	Upstream Upstream
	Retry    Retry

	// Archive400SkipCaseIDs lists case ids for which a 400 from the archive
	// update call is logged and skipped instead of aborting the finalize.
	// Production-workaround allow-list; keep empty unless operations says so.
	Archive400SkipCaseIDs []string
}

// Kafka holds broker and topic configuration for the ingest listener and the
// finalized-case publisher.
type Kafka struct {
	Brokers        []string
	IngestTopic    string
	IngestGroup    string
	FinalizedTopic string
}

// RedisConfig holds connection settings for the practitioner-flag cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Upstream holds base URLs for the external collaborators.
type Upstream struct {
	AuthzBaseURL        string
	ArchiveBaseURL      string
	TaskBaseURL         string
	PractitionerBaseURL string
	CallTimeout         time.Duration
}

// Retry configures the capped exponential backoff applied to transient
// upstream failures. 4xx responses are never retried.
type Retry struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// PractitionerFlagTTL enforces retention for cached practitioner flags.
var PractitionerFlagTTL = 5 * time.Minute

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	return Config{
		Addr:          envOr("CASEFLOW_ADDR", ":8080"),
		DatabaseURL:   os.Getenv("CASEFLOW_DATABASE_URL"),
		JWTSigningKey: envOr("CASEFLOW_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		Kafka: Kafka{
			Brokers:        splitList(envOr("CASEFLOW_KAFKA_BROKERS", "localhost:9092")),
			IngestTopic:    envOr("CASEFLOW_INGEST_TOPIC", "oppgave-task-created"),
			IngestGroup:    envOr("CASEFLOW_INGEST_GROUP", "caseflow-ingest"),
			FinalizedTopic: envOr("CASEFLOW_FINALIZED_TOPIC", "caseflow-case-finalized"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("CASEFLOW_REDIS_URL"),
			PoolSize:     envInt("CASEFLOW_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("CASEFLOW_REDIS_MIN_IDLE", 2),
			DialTimeout:  envDuration("CASEFLOW_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("CASEFLOW_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("CASEFLOW_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Upstream: Upstream{
			AuthzBaseURL:        envOr("CASEFLOW_AUTHZ_URL", "http://localhost:8081"),
			ArchiveBaseURL:      envOr("CASEFLOW_ARCHIVE_URL", "http://localhost:8082"),
			TaskBaseURL:         envOr("CASEFLOW_TASK_URL", "http://localhost:8083"),
			PractitionerBaseURL: envOr("CASEFLOW_PRACTITIONER_URL", "http://localhost:8084"),
			CallTimeout:         envDuration("CASEFLOW_UPSTREAM_TIMEOUT", 10*time.Second),
		},
		Retry: Retry{
			MaxAttempts:     envInt("CASEFLOW_RETRY_MAX_ATTEMPTS", 4),
			InitialInterval: envDuration("CASEFLOW_RETRY_INITIAL_INTERVAL", 500*time.Millisecond),
			MaxInterval:     envDuration("CASEFLOW_RETRY_MAX_INTERVAL", 10*time.Second),
		},
		Archive400SkipCaseIDs: splitList(os.Getenv("CASEFLOW_ARCHIVE_400_SKIP")),
	}
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

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	return pstrings.DedupeAndTrim(strings.Split(raw, ","))
}
