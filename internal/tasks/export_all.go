package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
)

// ExportAllShowsTask writes a snapshot of every show in the catalog.
type ExportAllShowsTask struct {
	Format string `json:"format,omitempty"`
}

// Config returns the queue configuration for bulk export tasks.
func (t ExportAllShowsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "export_all_shows",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     30 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ExportAllShowsProcessor creates a processor function for ExportAllShowsTask.
func ExportAllShowsProcessor(exporter *Exporter) backlite.QueueProcessor[ExportAllShowsTask] {
	return func(ctx context.Context, task ExportAllShowsTask) error {
		if exporter == nil {
			return fmt.Errorf("exporter not configured")
		}

		format, err := taskFormat(task.Format)
		if err != nil {
			return err
		}
		paths, err := exporter.ExportAll(ctx, format)
		exporter.log.WithField("count", len(paths)).Info("Exported all shows")
		if err != nil {
			return fmt.Errorf("export all shows: %w", err)
		}
		return nil
	}
}

// NewExportAllShowsQueue creates a backlite queue for bulk export tasks.
func NewExportAllShowsQueue(exporter *Exporter) backlite.Queue {
	return backlite.NewQueue(ExportAllShowsProcessor(exporter))
}
