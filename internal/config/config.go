package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all configuration for the ads insights service
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	NATS     NATSConfig     `mapstructure:"nats"`
	Sentry   SentryConfig   `mapstructure:"sentry"`
	Google   GoogleConfig   `mapstructure:"google"`
	Meta     MetaConfig     `mapstructure:"meta"`
	Security SecurityConfig `mapstructure:"security"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// AppConfig holds application configuration
type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Port string `mapstructure:"port"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"name"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// RedisConfig holds Redis cache configuration
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL string `mapstructure:"url"`
}

// SentryConfig holds Sentry error tracking configuration
type SentryConfig struct {
	DSN         string `mapstructure:"dsn"`
	Environment string `mapstructure:"environment"`
	Release     string `mapstructure:"release"`
}

// GoogleConfig holds Google Ads API configuration
type GoogleConfig struct {
	ClientID       string `mapstructure:"client_id"`
	ClientSecret   string `mapstructure:"client_secret"`
	DeveloperToken string `mapstructure:"developer_token"`
	RedirectURL    string `mapstructure:"redirect_url"`
}

// MetaConfig holds Meta Marketing API configuration
type MetaConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	EncryptionKey string `mapstructure:"encryption_key"` // secret for AES-256 token encryption
}

// MetricsConfig holds dashboard metrics behavior
type MetricsConfig struct {
	// UseMockData serves the deterministic demo dataset instead of live
	// provider calls.
	UseMockData bool `mapstructure:"use_mock_data"`
	// CacheTTLSeconds bounds how long resolved envelopes stay in Redis.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Automatically load environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("") // No prefix, read exact variable names

	// Bind specific environment variables
	_ = v.BindEnv("app.name", "APP_NAME")
	_ = v.BindEnv("app.env", "APP_ENV")
	_ = v.BindEnv("app.port", "APP_PORT")

	_ = v.BindEnv("database.host", "DB_HOST")
	_ = v.BindEnv("database.port", "DB_PORT")
	_ = v.BindEnv("database.user", "DB_USER")
	_ = v.BindEnv("database.password", "DB_PASSWORD")
	_ = v.BindEnv("database.name", "DB_NAME")
	_ = v.BindEnv("database.ssl_mode", "DB_SSLMODE")

	_ = v.BindEnv("nats.url", "NATS_URL")

	// Redis
	_ = v.BindEnv("redis.host", "REDIS_HOST")
	_ = v.BindEnv("redis.port", "REDIS_PORT")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("redis.db", "REDIS_DB")

	_ = v.BindEnv("sentry.dsn", "SENTRY_DSN")
	_ = v.BindEnv("sentry.environment", "APP_ENV")
	_ = v.BindEnv("sentry.release", "APP_VERSION")

	// Google Ads
	_ = v.BindEnv("google.client_id", "GOOGLE_CLIENT_ID")
	_ = v.BindEnv("google.client_secret", "GOOGLE_CLIENT_SECRET")
	_ = v.BindEnv("google.developer_token", "GOOGLE_ADS_DEVELOPER_TOKEN")
	_ = v.BindEnv("google.redirect_url", "GOOGLE_REDIRECT_URL")

	// Meta Ads
	_ = v.BindEnv("meta.client_id", "META_CLIENT_ID")
	_ = v.BindEnv("meta.client_secret", "META_CLIENT_SECRET")
	_ = v.BindEnv("meta.redirect_url", "META_REDIRECT_URL")

	// Security
	_ = v.BindEnv("security.encryption_key", "APP_ENCRYPTION_KEY")

	// Metrics behavior
	_ = v.BindEnv("metrics.use_mock_data", "USE_MOCK_ADS_DATA")
	_ = v.BindEnv("metrics.cache_ttl_seconds", "METRICS_CACHE_TTL_SECONDS")

	// Set defaults
	setDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	// App
	v.SetDefault("app.name", "service-ads-insights")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8011")

	// Database
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.ssl_mode", "disable")

	// NATS
	v.SetDefault("nats.url", "nats://localhost:4222")

	// Redis
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// OAuth callbacks land on this service by default
	v.SetDefault("google.redirect_url", "http://localhost:8011/api/v1/connect/google/callback")
	v.SetDefault("meta.redirect_url", "http://localhost:8011/api/v1/connect/meta/callback")

	// Metrics
	v.SetDefault("metrics.use_mock_data", false)
	v.SetDefault("metrics.cache_ttl_seconds", 300)

	// Sentry
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")
	v.SetDefault("sentry.release", "1.0.0")
}
