package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr string
	RedisDB   int

	KafkaHost              string
	KafkaOrderChangedTopic string

	// PaymentGatewayURL empty means the simulated gateway.
	PaymentGatewayURL string
	PaymentTimeout    time.Duration

	PaymentGrace     time.Duration
	DeliveryGrace    time.Duration
	ExpirySchedule   string
	DeliverySchedule string
	SweepConcurrency int

	OTLPEndpoint string
	LogLevel     slog.Level
}

// LoadConfig reads the environment, after loading .env if one exists in the
// working directory. Variables already set win over the file.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return ConfigFromEnv(os.Getenv)
}

// ConfigFromEnv builds the config from a lookup function and applies defaults.
func ConfigFromEnv(getenv func(string) string) (Config, error) {
	p := envParser{getenv: getenv}
	cfg := Config{
		HTTPPort:   p.str("HTTP_PORT", "8080"),
		DBHost:     p.str("DB_HOST", "localhost"),
		DBPort:     p.str("DB_PORT", "5432"),
		DBUser:     p.str("DB_USER", "postgres"),
		DBPassword: p.str("DB_PASSWORD", ""),
		DBName:     p.str("DB_NAME", "takeout"),
		DBSslMode:  p.str("DB_SSLMODE", "disable"),

		RedisAddr: p.str("REDIS_ADDR", "localhost:6379"),
		RedisDB:   p.integer("REDIS_DB", 0),

		KafkaHost:              p.str("KAFKA_HOST", ""),
		KafkaOrderChangedTopic: p.str("KAFKA_ORDER_CHANGED_TOPIC", "order.status-changed"),

		PaymentGatewayURL: p.str("PAYMENT_GATEWAY_URL", ""),
		PaymentTimeout:    p.duration("PAYMENT_TIMEOUT", 5*time.Second),

		PaymentGrace:     p.duration("PAYMENT_GRACE", 15*time.Minute),
		DeliveryGrace:    p.duration("DELIVERY_GRACE", time.Hour),
		ExpirySchedule:   p.str("EXPIRY_SCHEDULE", "0 * * * * *"),
		DeliverySchedule: p.str("DELIVERY_SCHEDULE", "0 0 * * * *"),
		SweepConcurrency: p.integer("SWEEP_CONCURRENCY", 4),

		OTLPEndpoint: p.str("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		LogLevel:     p.level("LOG_LEVEL", slog.LevelInfo),
	}
	if p.err != nil {
		return Config{}, p.err
	}
	return cfg, nil
}

// DSN is the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// envParser keeps the first parse error so every key is read in one pass.
type envParser struct {
	getenv func(string) string
	err    error
}

func (p *envParser) str(key, def string) string {
	if v := strings.TrimSpace(p.getenv(key)); v != "" {
		return v
	}
	return def
}

func (p *envParser) integer(key string, def int) int {
	raw := p.str(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key, raw, err)
		return def
	}
	return v
}

func (p *envParser) duration(key string, def time.Duration) time.Duration {
	raw := p.str(key, "")
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err == nil && v <= 0 {
		err = fmt.Errorf("must be positive")
	}
	if err != nil {
		p.fail(key, raw, err)
		return def
	}
	return v
}

func (p *envParser) level(key string, def slog.Level) slog.Level {
	raw := p.str(key, "")
	if raw == "" {
		return def
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(raw)); err != nil {
		p.fail(key, raw, err)
		return def
	}
	return l
}

func (p *envParser) fail(key, raw string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s=%q: %w", key, raw, err)
	}
}
