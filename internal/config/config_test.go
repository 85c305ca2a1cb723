package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, SessionStoreBolt, cfg.Session.Store)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, developmentSecret, cfg.JWT.Secret)
	assert.Equal(t, bcrypt.DefaultCost, cfg.Auth.BcryptCost)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
}

func TestLoad_DurationsAcceptSeconds(t *testing.T) {
	t.Setenv("SESSION_TTL", "90")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "750ms")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.Session.TTL)
	assert.Equal(t, 750*time.Millisecond, cfg.Context.RequestTimeout)
}

func TestLoad_BuildsPostgresURL(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", DriverPostgres)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_USER", "u")
	t.Setenv("DB_PASSWORD", "p")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", "todo")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5433/todo?sslmode=disable", cfg.Database.URL)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mysql")

	_, err := Load()
	assert.ErrorContains(t, err, "STORAGE_DRIVER")
}

func TestLoad_RedisSessionsNeedURL(t *testing.T) {
	t.Setenv("SESSION_STORE", SessionStoreRedis)
	t.Setenv("REDIS_URL", "")

	_, err := Load()
	assert.ErrorContains(t, err, "REDIS_URL")
}

func TestLoad_ProductionNeedsSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoad_ClampsBcryptCost(t *testing.T) {
	t.Setenv("BCRYPT_COST", "1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cfg.Auth.BcryptCost)
}
