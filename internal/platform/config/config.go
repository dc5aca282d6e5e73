package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	pkgstrings "verifyflow/pkg/platform/strings"
)

// ConcurrencyMode selects how SaveProfile treats a stale expected version.
type ConcurrencyMode string

const (
	// LastWriteWins accepts every save regardless of the caller's version.
	LastWriteWins ConcurrencyMode = "last_write_wins"
	// Strict rejects a save whose expected version is not the stored one.
	Strict ConcurrencyMode = "strict"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr      string
	LogFormat string
	LogLevel  string

	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Auth     AuthConfig
	Cases    CaseConfig
}

// PostgresConfig configures the case and user stores. An empty URL selects
// the in-memory stores.
type PostgresConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	ConnMaxLife  time.Duration
}

// RedisConfig configures the session revocation list. An empty URL selects
// the in-memory list.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures audit publishing. No brokers means audit events
// stay in memory.
type KafkaConfig struct {
	Brokers    []string
	AuditTopic string
}

type AuthConfig struct {
	JWTSigningKey string
	JWTIssuer     string
	SessionTTL    time.Duration
	// RateLimitPerMinute caps session endpoint calls per client IP.
	// Zero disables the limit.
	RateLimitPerMinute int
	// SeedReviewer is provisioned at startup when set. Public sign-up only
	// creates applicants.
	SeedReviewer *ReviewerSeed
}

type ReviewerSeed struct {
	Email    string
	Password string
}

// CaseConfig holds the case workflow policy switches.
type CaseConfig struct {
	MaxUploadBytes          int64
	ConcurrencyMode         ConcurrencyMode
	EnforceOwnershipTotal   bool
	RequireMinimumDocuments bool
}

// Load reads an optional .env file then builds the config from the environment.
// A missing .env file is not an error.
func Load(files ...string) (Server, error) {
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(err) {
		return Server{}, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	sessionTTL, err := durationEnv("JWT_TTL", 24*time.Hour)
	if err != nil {
		return Server{}, err
	}
	maxUpload, err := int64Env("MAX_UPLOAD_BYTES", 16<<20)
	if err != nil {
		return Server{}, err
	}
	var authLimit int64
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("AUTH_RATE_LIMIT")), "off") {
		if authLimit, err = int64Env("AUTH_RATE_LIMIT", 20); err != nil {
			return Server{}, err
		}
	}
	mode := ConcurrencyMode(strings.ToLower(envOr("CONCURRENCY_MODE", string(LastWriteWins))))
	if mode != LastWriteWins && mode != Strict {
		return Server{}, fmt.Errorf("CONCURRENCY_MODE must be %q or %q, got %q", LastWriteWins, Strict, mode)
	}

	seed, err := reviewerSeed()
	if err != nil {
		return Server{}, err
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:      envOr("VERIFYFLOW_ADDR", ":8080"),
		LogFormat: envOr("LOG_FORMAT", "json"),
		LogLevel:  envOr("LOG_LEVEL", "info"),
		Postgres: PostgresConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: 25,
			MaxIdleConns: 5,
			ConnMaxLife:  30 * time.Minute,
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:    pkgstrings.SplitList(os.Getenv("KAFKA_BROKERS"), ","),
			AuditTopic: envOr("KAFKA_AUDIT_TOPIC", "verifyflow.audit.cases"),
		},
		Auth: AuthConfig{
			JWTSigningKey: jwtSigningKey,
			JWTIssuer:     envOr("JWT_ISSUER", "verifyflow"),
			SessionTTL:    sessionTTL,

			RateLimitPerMinute: int(authLimit),
			SeedReviewer:       seed,
		},
		Cases: CaseConfig{
			MaxUploadBytes:          maxUpload,
			ConcurrencyMode:         mode,
			EnforceOwnershipTotal:   os.Getenv("ENFORCE_OWNERSHIP_TOTAL") == "true",
			RequireMinimumDocuments: os.Getenv("REQUIRE_MINIMUM_DOCUMENTS") == "true",
		},
	}, nil
}

func reviewerSeed() (*ReviewerSeed, error) {
	address := strings.TrimSpace(os.Getenv("REVIEWER_EMAIL"))
	password := os.Getenv("REVIEWER_PASSWORD")
	switch {
	case address == "" && password == "":
		return nil, nil
	case address == "" || password == "":
		return nil, fmt.Errorf("REVIEWER_EMAIL and REVIEWER_PASSWORD must be set together")
	}
	return &ReviewerSeed{Email: address, Password: password}, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, raw)
	}
	return d, nil
}

func int64Env(key string, fallback int64) (int64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, raw)
	}
	return n, nil
}
