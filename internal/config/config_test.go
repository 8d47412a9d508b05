package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AZURE_AD_TENANT_ID", "tenant-123")
	t.Setenv("AZURE_AD_SCOPE", "api://project-service")
	t.Setenv("POSTGRES_DSN", "postgres://localhost:5432/projects")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8000", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "projects", cfg.Store.Container)
	assert.Equal(t, "api://project-service", cfg.Auth.Audience)
	assert.False(t, cfg.Auth.RequireToken)
	assert.Equal(t, 5*time.Minute, cfg.Auth.KeyRefreshMinInterval())
}

func TestLoad_AudienceOverride(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AZURE_AD_AUDIENCE", "client-id-456")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "client-id-456", cfg.Auth.Audience)
}

func TestLoad_ValidationFailures(t *testing.T) {
	t.Run("missing tenant", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("AZURE_AD_TENANT_ID", "")
		_, err := Load()
		assert.ErrorContains(t, err, "AZURE_AD_TENANT_ID")
	})

	t.Run("unknown store driver", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("STORE_DRIVER", "cosmos")
		_, err := Load()
		assert.ErrorContains(t, err, "unsupported STORE_DRIVER")
	})

	t.Run("redis driver needs no dsn", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("POSTGRES_DSN", "")
		t.Setenv("STORE_DRIVER", StoreDriverRedis)
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, StoreDriverRedis, cfg.Store.Driver)
	})

	t.Run("invalid redis db", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("REDIS_DB", "zero")
		_, err := Load()
		assert.ErrorContains(t, err, "invalid REDIS_DB")
	})
}

func TestAuthConfig_DerivedURLs(t *testing.T) {
	a := AuthConfig{TenantID: "tenant-123"}

	assert.Equal(t, "https://login.microsoftonline.com/tenant-123/discovery/v2.0/keys", a.JWKSURL())
	assert.Equal(t, []string{
		"https://login.microsoftonline.com/tenant-123/v2.0",
		"https://sts.windows.net/tenant-123/",
	}, a.Issuers())

	a.JWKSURLOverride = "http://127.0.0.1:9999/keys"
	assert.Equal(t, "http://127.0.0.1:9999/keys", a.JWKSURL())
}

func TestAuthConfig_Durations(t *testing.T) {
	a := AuthConfig{}
	assert.Zero(t, a.KeyRefreshMinInterval())
	assert.Equal(t, 10*time.Second, a.KeyFetchTimeout())

	a.KeyFetchTimeoutSeconds = 3
	assert.Equal(t, 3*time.Second, a.KeyFetchTimeout())
}
