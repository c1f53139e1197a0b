package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StoreMemory, cfg.App.Store)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 30, cfg.Replenishment.WindowDays)
	assert.Equal(t, 7, cfg.Replenishment.CoverDays)
	assert.Equal(t, "1.2", cfg.Replenishment.SafetyFactor.String())
	assert.Equal(t, 5*time.Second, cfg.DB.LockTimeout)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, "log", cfg.Alerts.Publisher)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("APP_STORE", "Postgres")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_LOCK_TIMEOUT", "750ms")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("ALERTS_PUBLISHER", "both")
	t.Setenv("REPLENISHMENT_SAFETY_FACTOR", "1.5")
	t.Setenv("REPLENISHMENT_COVER_DAYS", "14")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StorePostgres, cfg.App.Store)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.Equal(t, 750*time.Millisecond, cfg.DB.LockTimeout)
	assert.False(t, cfg.DB.AutoMigrate)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "1.5", cfg.Replenishment.SafetyFactor.String())
	assert.Equal(t, 14, cfg.Replenishment.CoverDays)
}

func TestLoad_Invalida(t *testing.T) {
	t.Setenv("APP_STORE", "sqlite")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_AlertasRedisSinAddr(t *testing.T) {
	t.Setenv("ALERTS_PUBLISHER", "redis")
	_, err := config.Load()
	assert.ErrorContains(t, err, "REDIS_ADDR")
}

func TestLoad_ProduccionExigeSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	_, err := config.Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestDBConfig_DSN(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "ledger", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/ledger?sslmode=disable", c.DSN())
	assert.Equal(t, c.DSN(), c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
