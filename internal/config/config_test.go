package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(8189), cfg.HTTP.Port)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, "xml", cfg.Export.Format)
	assert.True(t, cfg.Tasks.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Tasks.ReleaseAfter)
	assert.False(t, cfg.SnapshotSchedule.Enabled)
	assert.Equal(t, 30, cfg.Export.RetentionDays)
	assert.False(t, cfg.Demo.Enabled)
}

func TestNewConfig_Environment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_PATH", "/tmp/other.db")
	t.Setenv("EXPORT_FORMAT", "json")
	t.Setenv("TASK_WORKERS", "4")
	t.Setenv("SNAPSHOT_SCHEDULE_ENABLED", "true")
	t.Setenv("DEMO_MODE", "true")

	cfg := NewConfig()

	assert.Equal(t, int32(9000), cfg.HTTP.Port)
	assert.Equal(t, "/tmp/other.db", cfg.Database.Path)
	assert.Equal(t, "json", cfg.Export.Format)
	assert.Equal(t, 4, cfg.Tasks.Workers)
	assert.True(t, cfg.SnapshotSchedule.Enabled)
	assert.True(t, cfg.Demo.Enabled)
}
