// File: /config/config.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	LogLevel    string
	DBDriver    string
	DatabaseURL string
	JWTSecret   string

	// Redis username cache, disabled when RedisAddr is empty
	RedisAddr        string
	RedisPassword    string
	UsernameCacheTTL time.Duration

	// Kafka friendship events, disabled when KafkaBrokers is empty
	KafkaBrokers []string
	KafkaTopic   string

	// Upper bound on one synchronous event publication (kafka or email)
	EventPublishTimeout time.Duration

	// Email Configuration
	EmailNotifications bool
	SMTPHost           string
	SMTPPort           int
	SMTPUsername       string
	SMTPPassword       string
	FromEmail          string
	FromName           string

	CORSAllowedOrigins []string
	RateLimitPerMinute int
	RateLimitBurst     int

	DefaultFriendsPerPage int
	MaxFriendsPerPage     int

	StatsSnapshotInterval time.Duration

	OTELEndpoint    string
	OTELServiceName string
	OTELSampleRatio float64

	SeedData  bool
	SeedUsers int
}

// Load reads a .env file when present, then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		DatabaseURL: getEnv("DATABASE_URL", "user:password@tcp(localhost:3306)/friendgraph?charset=utf8mb4&parseTime=True&loc=UTC"),
		JWTSecret:   getEnv("JWT_SECRET", "your-secret-key"),

		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		UsernameCacheTTL: getEnvDuration("USERNAME_CACHE_TTL", time.Hour),

		KafkaBrokers: splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "friendships.events"),

		EventPublishTimeout: getEnvDuration("EVENT_PUBLISH_TIMEOUT", 3*time.Second),

		EmailNotifications: getEnvBool("EMAIL_NOTIFICATIONS", false),
		SMTPHost:           getEnv("SMTP_HOST", "sandbox.smtp.mailtrap.io"),
		SMTPPort:           getEnvInt("SMTP_PORT", 2525),
		SMTPUsername:       getEnv("SMTP_USERNAME", ""),
		SMTPPassword:       getEnv("SMTP_PASSWORD", ""),
		FromEmail:          getEnv("FROM_EMAIL", "noreply@friendgraph.dev"),
		FromName:           getEnv("FROM_NAME", "FriendGraph"),

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 20),

		DefaultFriendsPerPage: getEnvInt("FRIENDS_DEFAULT_PAGE_SIZE", 10),
		MaxFriendsPerPage:     getEnvInt("FRIENDS_MAX_PAGE_SIZE", 50),

		StatsSnapshotInterval: getEnvDuration("STATS_SNAPSHOT_INTERVAL", time.Minute),

		OTELEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTELServiceName: getEnv("OTEL_SERVICE_NAME", "friendgraph-api"),
		OTELSampleRatio: getEnvFloat("OTEL_TRACES_SAMPLER_ARG", 1.0),

		SeedData:  getEnvBool("SEED_DATA", false),
		SeedUsers: getEnvInt("SEED_USERS", 25),
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return f
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
