package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Logging
		Export
		Tasks
		SnapshotSchedule
		Demo
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path   string
		LogSQL bool
	}
	Logging struct {
		Level  string
		Format string // "text" or "json"
	}
	Export struct {
		Dir           string
		Format        string // "xml" or "json"
		RetentionDays int    // Days to keep snapshot files (default: 30)
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	SnapshotSchedule struct {
		Enabled  bool
		Schedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
	Demo struct {
		Enabled bool // Block write operations
		Seed    bool // Load the demo catalog into an empty database
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8189)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_log_sql", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("export_dir", DefaultExportDir)
	v.SetDefault("export_format", "xml")
	v.SetDefault("export_retention_days", 30)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "5m")
	v.SetDefault("task_cleanup_interval", "1h")

	v.SetDefault("snapshot_schedule_enabled", false)
	v.SetDefault("snapshot_schedule", "0 3 * * *")

	v.SetDefault("demo_mode", false)
	v.SetDefault("demo_seed", false)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path:   v.GetString("DATABASE_PATH"),
			LogSQL: v.GetBool("DATABASE_LOG_SQL"),
		},
		Logging: Logging{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Export: Export{
			Dir:           v.GetString("EXPORT_DIR"),
			Format:        v.GetString("EXPORT_FORMAT"),
			RetentionDays: v.GetInt("EXPORT_RETENTION_DAYS"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		SnapshotSchedule: SnapshotSchedule{
			Enabled:  v.GetBool("SNAPSHOT_SCHEDULE_ENABLED"),
			Schedule: v.GetString("SNAPSHOT_SCHEDULE"),
		},
		Demo: Demo{
			Enabled: v.GetBool("DEMO_MODE"),
			Seed:    v.GetBool("DEMO_SEED"),
		},
	}
}
