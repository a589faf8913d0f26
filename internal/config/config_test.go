package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "questlog", cfg.AppName)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, IsolationReadCommitted, cfg.Database.TxIsolation)
	assert.Equal(t, LockNone, cfg.Schedule.Lock)
	assert.Equal(t, "UTC", cfg.Schedule.Timezone)
	assert.Equal(t, 30*time.Second, cfg.Journal.SyncInterval)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
	assert.Equal(t, "postgres://questlog:@localhost:5432/questlog?sslmode=disable", cfg.Database.DSN())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/x")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("SCHEDULE_LOCK", "redis")
	t.Setenv("SCHEDULE_TIMEZONE", "Europe/Berlin")
	t.Setenv("JOURNAL_SYNC_INTERVAL", "5")
	t.Setenv("SCHEDULE_LOCK_TTL", "2s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.Database.DSN())
	assert.Equal(t, LockRedis, cfg.Schedule.Lock)
	assert.Equal(t, 5*time.Second, cfg.Journal.SyncInterval)
	assert.Equal(t, 2*time.Second, cfg.Schedule.LockTTL)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Database: DatabaseConfig{Driver: DriverPostgres, TxIsolation: IsolationSerializable},
			Schedule: ScheduleConfig{Lock: LockNone, Timezone: "UTC"},
			JWT:      JWTConfig{Secret: "secret"},
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		msg    string
	}{
		{"missing secret", func(c *Config) { c.JWT.Secret = "" }, "JWT_SECRET"},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, "DB_DRIVER"},
		{"unknown isolation", func(c *Config) { c.Database.TxIsolation = "chaos" }, "DB_TX_ISOLATION"},
		{"unknown lock", func(c *Config) { c.Schedule.Lock = "zookeeper" }, "SCHEDULE_LOCK"},
		{"redis lock without redis", func(c *Config) { c.Schedule.Lock = LockRedis }, "REDIS_ENABLED"},
		{"unknown zone", func(c *Config) { c.Schedule.Timezone = "Mars/Olympus" }, "SCHEDULE_TIMEZONE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
