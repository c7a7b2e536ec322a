package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(8080), cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
	assert.Equal(t, 5, cfg.Global.ShutdownTimeoutInSeconds)
	assert.Equal(t, "development", cfg.Log.Mode)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.True(t, cfg.Metrics.Enabled)
	assert.True(t, cfg.Tasks.Enabled)
	assert.Equal(t, 1, cfg.Tasks.Workers)
	assert.Equal(t, 5*time.Minute, cfg.Tasks.ReleaseAfter)
	assert.Equal(t, time.Hour, cfg.Tasks.CleanupInterval)
	assert.False(t, cfg.IntegritySweep.Enabled)
	assert.Equal(t, DefaultIntegritySweepSchedule, cfg.IntegritySweep.Schedule)
}

func TestNewConfig_Environment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "Postgres")
	t.Setenv("DATABASE_DSN", "host=db user=library")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.example, http://b.example,")
	t.Setenv("TASK_RELEASE_AFTER", "30s")
	t.Setenv("INTEGRITY_SWEEP_ENABLED", "true")
	t.Setenv("METRICS_ENABLED", "false")

	cfg := NewConfig()

	assert.Equal(t, int32(9090), cfg.HTTP.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "host=db user=library", cfg.Database.DSN)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.HTTP.CORSAllowOrigins)
	assert.Equal(t, 30*time.Second, cfg.Tasks.ReleaseAfter)
	assert.True(t, cfg.IntegritySweep.Enabled)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad_Overrides(t *testing.T) {
	v := NewViper()
	v.Set("database_path", "/tmp/other.db")
	v.Set("log_mode", "production")

	cfg := Load(v)

	assert.Equal(t, "/tmp/other.db", cfg.Database.Path)
	assert.Equal(t, "production", cfg.Log.Mode)
}
