package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string

	HTTPAddr string

	// WordPress database
	DBDriver    string // mysql | sqlite
	DatabaseDSN string
	TablePrefix string

	EventPostType      string
	ProductionPostType string

	// Site
	SiteURL        string
	UploadsURL     string
	ProductionBase string
	SiteLocale     string
	SiteTimezone   string

	// Redis & Caching
	RedisURL     string
	CacheTTLList time.Duration

	// RabbitMQ
	RabbitURL      string
	RabbitExchange string

	// Admin
	JWTSecret string
	JWTIssuer string

	// Rate Limiting
	RLEnabled bool
	RLLimit   int
	RLWindow  time.Duration

	LogLevel  string
	LogFormat string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.AppEnv = getEnv("APP_ENV", "dev")
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	cfg.DBDriver = getEnv("DB_DRIVER", "mysql")
	cfg.DatabaseDSN = getEnv("DATABASE_DSN", "")
	cfg.TablePrefix = getEnv("TABLE_PREFIX", "wp_")

	cfg.EventPostType = getEnv("EVENT_POST_TYPE", "event")
	cfg.ProductionPostType = getEnv("PRODUCTION_POST_TYPE", "production")

	cfg.SiteURL = getEnv("SITE_URL", "http://localhost")
	cfg.UploadsURL = getEnv("UPLOADS_URL", "")
	cfg.ProductionBase = getEnv("PRODUCTION_BASE", "")
	cfg.SiteLocale = getEnv("SITE_LOCALE", "en_US")
	cfg.SiteTimezone = getEnv("SITE_TIMEZONE", "UTC")

	// empty disables the shared cache
	cfg.RedisURL = getEnv("REDIS_URL", "")
	cfg.CacheTTLList = getDuration("CACHE_TTL_LIST", 15*time.Second)

	cfg.RabbitURL = getEnv("RABBIT_URL", "")
	cfg.RabbitExchange = getEnv("RABBIT_EXCHANGE", "wordpress.content")

	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.JWTIssuer = getEnv("JWT_ISSUER", "")

	// 100 reqs / 1 min
	cfg.RLEnabled = getEnv("RL_ENABLED", "true") == "true"
	cfg.RLLimit = getIntEnv("RL_IP_LIMIT", 100)
	cfg.RLWindow = getDuration("RL_IP_WINDOW", 1*time.Minute)

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "console")

	cfg.HTTPReadTimeout = getDuration("HTTP_READ_TIMEOUT", 10*time.Second)
	cfg.HTTPWriteTimeout = getDuration("HTTP_WRITE_TIMEOUT", 20*time.Second)
	cfg.HTTPIdleTimeout = getDuration("HTTP_IDLE_TIMEOUT", 60*time.Second)

	// validation
	if cfg.DatabaseDSN == "" {
		return nil, fmt.Errorf("missing DATABASE_DSN")
	}
	if cfg.DBDriver != "mysql" && cfg.DBDriver != "sqlite" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (mysql|sqlite)", cfg.DBDriver)
	}
	if _, err := time.LoadLocation(cfg.SiteTimezone); err != nil {
		return nil, fmt.Errorf("invalid SITE_TIMEZONE: %w", err)
	}
	if cfg.AppEnv != "dev" && cfg.DBDriver == "sqlite" {
		return nil, fmt.Errorf("DB_DRIVER sqlite is only allowed when APP_ENV=dev")
	}

	return cfg, nil
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func getIntEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}
