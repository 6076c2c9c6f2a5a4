package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type SMTPConfig struct {
	Host          string
	Port          string
	User          string
	Pass          string
	TLSMode       string // "", "starttls", "tls"
	SkipVerifyTLS bool

	FromName string
	From     string
}

type GatewayConfig struct {
	Secret string `validate:"required"`
	PayURL string `validate:"required,url"`
	// Storefront page the browser lands on after the gateway redirect.
	ResultURL string `validate:"required,url"`
}

type Config struct {
	HTTPAddr  string `validate:"required"`
	DBDSN     string `validate:"required"`
	RedisAddr string `validate:"required"`

	Gateway GatewayConfig

	// per-order settlement lease
	SettleLockTTL time.Duration

	SMTP SMTPConfig
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:  getenv("HTTP_ADDR", ":8080"),
		DBDSN:     os.Getenv("DB_DSN"),
		RedisAddr: getenv("REDIS_ADDR", "127.0.0.1:6379"),
		Gateway: GatewayConfig{
			Secret:    os.Getenv("GATEWAY_SECRET"),
			PayURL:    getenv("GATEWAY_PAY_URL", "https://sandbox.gateway.test/pay"),
			ResultURL: getenv("STOREFRONT_RESULT_URL", "http://localhost:3000/checkout/result"),
		},
		SettleLockTTL: getenvDuration("SETTLE_LOCK_TTL", 15*time.Second),
		SMTP: SMTPConfig{
			Host:          getenv("SMTP_HOST", "localhost"),
			Port:          getenv("SMTP_PORT", "1025"),
			User:          os.Getenv("SMTP_USER"),
			Pass:          os.Getenv("SMTP_PASS"),
			TLSMode:       os.Getenv("SMTP_TLS_MODE"),
			SkipVerifyTLS: getenvBool("SMTP_SKIP_VERIFY_TLS", false),
			FromName:      getenv("SMTP_FROM_NAME", "Storefront"),
			From:          getenv("SMTP_FROM", "no-reply@local.test"),
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
