package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers supported by the persistence gateway.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverRedis    = "redis"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Store    StoreConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// StoreConfig selects the document store backing projects.
type StoreConfig struct {
	Driver string
	// Container is the table name (postgres) or key prefix (redis) holding project documents.
	Container string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	EnsureContainer bool
	ConnMaxIdleSec  int32
	ConnMaxLifeSec  int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines identity provider parameters.
type AuthConfig struct {
	TenantID string
	ClientID string
	Audience string
	// JWKSURLOverride replaces the discovery URL derived from TenantID when set.
	JWKSURLOverride string
	// RequireToken rejects every request lacking a valid bearer token before GraphQL runs.
	RequireToken                 bool
	KeyRefreshMinIntervalSeconds int
	KeyFetchTimeoutSeconds       int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "project-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8000"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Store: StoreConfig{
			Driver:    getEnv("STORE_DRIVER", StoreDriverPostgres),
			Container: getEnv("STORE_CONTAINER", "projects"),
		},
		Postgres: PostgresConfig{
			DSN:             os.Getenv("POSTGRES_DSN"),
			MaxConns:        int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:        int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			EnsureContainer: getEnvAsBool("POSTGRES_ENSURE_CONTAINER", true),
			ConnMaxIdleSec:  int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec:  int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			TenantID:                     os.Getenv("AZURE_AD_TENANT_ID"),
			ClientID:                     os.Getenv("AZURE_AD_CLIENT_ID"),
			Audience:                     getEnv("AZURE_AD_AUDIENCE", os.Getenv("AZURE_AD_SCOPE")),
			JWKSURLOverride:              os.Getenv("AUTH_JWKS_URL"),
			RequireToken:                 getEnvAsBool("AUTH_REQUIRE_TOKEN", false),
			KeyRefreshMinIntervalSeconds: getEnvAsInt("AUTH_KEY_REFRESH_MIN_INTERVAL_SECONDS", 300),
			KeyFetchTimeoutSeconds:       getEnvAsInt("AUTH_KEY_FETCH_TIMEOUT_SECONDS", 10),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings the service cannot start without.
func (c *Config) Validate() error {
	if c.Auth.TenantID == "" {
		return errors.New("AZURE_AD_TENANT_ID is required")
	}
	if c.Auth.Audience == "" {
		return errors.New("AZURE_AD_AUDIENCE or AZURE_AD_SCOPE is required")
	}
	switch c.Store.Driver {
	case StoreDriverPostgres:
		if c.Postgres.DSN == "" {
			return errors.New("POSTGRES_DSN is required for the postgres store")
		}
	case StoreDriverRedis:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}
	if c.Store.Container == "" {
		return errors.New("STORE_CONTAINER must not be empty")
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// JWKSURL returns the identity provider's key discovery endpoint.
func (a AuthConfig) JWKSURL() string {
	if a.JWKSURLOverride != "" {
		return a.JWKSURLOverride
	}
	return fmt.Sprintf("https://login.microsoftonline.com/%s/discovery/v2.0/keys", a.TenantID)
}

// Issuers returns the accepted token issuers: the tenant v2.0 endpoint and the legacy STS endpoint.
func (a AuthConfig) Issuers() []string {
	return []string{
		fmt.Sprintf("https://login.microsoftonline.com/%s/v2.0", a.TenantID),
		fmt.Sprintf("https://sts.windows.net/%s/", a.TenantID),
	}
}

// KeyRefreshMinInterval is the minimum spacing between on-miss key refreshes. Zero disables them.
func (a AuthConfig) KeyRefreshMinInterval() time.Duration {
	if a.KeyRefreshMinIntervalSeconds <= 0 {
		return 0
	}
	return time.Duration(a.KeyRefreshMinIntervalSeconds) * time.Second
}

// KeyFetchTimeout bounds a single key set download.
func (a AuthConfig) KeyFetchTimeout() time.Duration {
	if a.KeyFetchTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(a.KeyFetchTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
