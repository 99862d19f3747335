package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port           string
	DatabaseURL    string
	RedisURL       string
	KafkaBrokers   string
	JaegerEndpoint string
	JWTSecret      string
	UploadDir      string

	MinTransferAmount int64
	FraudThreshold    float64
	FraudPositiveRate float64
	CaptureDelay      time.Duration
	CaptureTimeout    time.Duration
	AssessTimeout     time.Duration
}

func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		KafkaBrokers:   os.Getenv("KAFKA_BROKERS"),
		JaegerEndpoint: os.Getenv("JAEGER_ENDPOINT"),
		JWTSecret:      getEnv("JWT_SECRET", "transfer-auth-dev-secret"),
		UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),

		MinTransferAmount: getEnvAsInt64("MIN_TRANSFER_AMOUNT", 10_000),
		FraudThreshold:    getEnvAsFloat("FRAUD_THRESHOLD", 50),
		FraudPositiveRate: getEnvAsFloat("FRAUD_POSITIVE_RATE", 0.20),
		CaptureDelay:      getEnvAsDuration("CAPTURE_DELAY", 500*time.Millisecond),
		CaptureTimeout:    getEnvAsDuration("CAPTURE_TIMEOUT", 5*time.Second),
		AssessTimeout:     getEnvAsDuration("ASSESS_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
