package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates application configuration values loaded from environment variables.
// Nothing is mandatory: without brokers events stay local, without S3 documents stay in memory.
type Config struct {
	Env                 string
	HTTPAddr            string
	CORSOrigins         []string
	CatalogFixtures     string
	Currency            string
	HallFee             int64
	SuggestDebounce     time.Duration
	SuggestMinChars     int
	KafkaBrokers        []string
	KafkaTopicPrefix    string
	IdempotencyTTL      time.Duration
	OutboxPollInterval  time.Duration
	RetryBackoff        []time.Duration
	S3Endpoint          string
	S3PublicEndpoint    string
	S3AccessKey         string
	S3SecretKey         string
	S3Bucket            string
	S3UseSSL            bool
	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	VerificationTTL     time.Duration
	MaintenanceSchedule string
}

// Load reads optional dotenv files (".env" when none given) and then the process environment.
// Variables already set in the environment win over dotenv values.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	cfg := Config{
		Env:                 getEnv("APP_ENV", "dev"),
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		CORSOrigins:         splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		CatalogFixtures:     os.Getenv("CATALOG_FIXTURES"),
		Currency:            strings.ToUpper(getEnv("CURRENCY", "USD")),
		KafkaBrokers:        splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopicPrefix:    getEnv("KAFKA_TOPIC_PREFIX", ""),
		S3Endpoint:          os.Getenv("S3_ENDPOINT"),
		S3PublicEndpoint:    getEnv("S3_PUBLIC_ENDPOINT", ""),
		S3AccessKey:         getEnv("S3_ACCESS_KEY", "minioadmin"),
		S3SecretKey:         getEnv("S3_SECRET_KEY", "minioadmin"),
		S3Bucket:            getEnv("S3_BUCKET", "wanderstay-documents"),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		RedisPassword:       os.Getenv("REDIS_PASSWORD"),
		MaintenanceSchedule: getEnv("MAINTENANCE_SCHEDULE", "@every 1m"),
	}

	hallFee, err := parseIntEnv("HALL_FEE", 500)
	if err != nil {
		return Config{}, err
	}
	if hallFee < 0 {
		return Config{}, fmt.Errorf("invalid HALL_FEE: must not be negative")
	}
	cfg.HallFee = hallFee

	minChars, err := parseIntEnv("SUGGEST_MIN_CHARS", 2)
	if err != nil {
		return Config{}, err
	}
	if minChars < 1 {
		minChars = 1
	}
	cfg.SuggestMinChars = int(minChars)

	if cfg.SuggestDebounce, err = parseDurationEnv("SUGGEST_DEBOUNCE", 300*time.Millisecond); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = parseDurationEnv("IDEMP_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.OutboxPollInterval, err = parseDurationEnv("OUTBOX_POLL_INTERVAL", 500*time.Millisecond); err != nil {
		return Config{}, err
	}
	if cfg.VerificationTTL, err = parseDurationEnv("VERIFICATION_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	redisDB, err := parseIntEnv("REDIS_DB", 0)
	if err != nil {
		return Config{}, err
	}
	cfg.RedisDB = int(redisDB)

	retryStr := getEnv("RETRY_BACKOFF", "1s,5s,30s")
	for _, raw := range strings.Split(retryStr, ",") {
		val := strings.TrimSpace(raw)
		if val == "" {
			continue
		}
		d, err := time.ParseDuration(val)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RETRY_BACKOFF component %q: %w", raw, err)
		}
		cfg.RetryBackoff = append(cfg.RetryBackoff, d)
	}

	if cfg.S3UseSSL, err = parseBoolEnv("S3_USE_SSL", false); err != nil {
		return Config{}, err
	}
	if cfg.S3PublicEndpoint == "" {
		cfg.S3PublicEndpoint = cfg.S3Endpoint
	}
	return cfg, nil
}

// RedisEnabled switches idempotency and verification records to a shared Redis.
func (c Config) RedisEnabled() bool {
	return strings.TrimSpace(c.RedisAddr) != ""
}

// KafkaEnabled reports whether reservation events leave the process.
func (c Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// S3Enabled reports whether documents go to object storage.
func (c Config) S3Enabled() bool {
	return strings.TrimSpace(c.S3Endpoint) != ""
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseIntEnv(key string, def int64) (int64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s integer: %w", key, err)
	}
	return v, nil
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func parseBoolEnv(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "t", "true", "yes", "y", "on":
		return true, nil
	case "0", "f", "false", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid %s boolean: %q", key, raw)
	}
}
