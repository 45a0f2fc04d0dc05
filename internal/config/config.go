package config

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port int

	// MongoURI has no default on purpose; an unset value is reported by the
	// connection layer on first use, not silently pointed at localhost.
	MongoURI string
	MongoDB  string

	CORSAllowedOrigins []string
	RateLimit          int
	RateWindow         time.Duration
	MaxBodyBytes       int64

	OtelEnabled  bool
	OtelEndpoint string

	// Notifier selects the booking confirmation channel: log | ses | off
	Notifier           string
	SESRegion          string
	SESAccessKeyID     string
	SESSecretAccessKey string
	SESFromAddress     string
	SESFromName        string

	// AdminToken guards mutating event routes; empty leaves them open.
	AdminToken string
}

func Load() Config {
	env := getEnv("APP_ENV", "dev")

	// .env is a local convenience; deployments set real environment variables
	if env != "production" {
		_ = godotenv.Load()
	}

	return Config{
		Env:  env,
		Port: getEnvInt("PORT", 8080),

		MongoURI: os.Getenv("MONGODB_URI"),
		MongoDB:  getEnv("MONGODB_DB", "dev_events"),

		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		RateLimit:          getEnvInt("RATE_LIMIT", 10),
		RateWindow:         getEnvDuration("RATE_WINDOW", time.Minute),
		MaxBodyBytes:       int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),

		OtelEnabled:  getEnvBool("OTEL_ENABLED", false),
		OtelEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),

		Notifier:           getEnv("NOTIFIER", "log"),
		SESRegion:          getEnv("SES_REGION", "us-east-1"),
		SESAccessKeyID:     os.Getenv("SES_ACCESS_KEY_ID"),
		SESSecretAccessKey: os.Getenv("SES_SECRET_ACCESS_KEY"),
		SESFromAddress:     getEnv("SES_FROM_ADDRESS", "bookings@dev.events"),
		SESFromName:        getEnv("SES_FROM_NAME", "Dev Events"),

		AdminToken: os.Getenv("ADMIN_TOKEN"),
	}
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)

		if err != nil {
			return fallback
		}

		return b
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)

		if err != nil {
			return fallback
		}

		return d
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	if len(out) == 0 {
		return fallback
	}

	return out
}
