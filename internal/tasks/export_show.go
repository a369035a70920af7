package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/clipcatalog/internal/external"
)

// ExportShowTask writes a snapshot of one show to the export directory.
type ExportShowTask struct {
	ShowID uint   `json:"show_id"`
	Format string `json:"format,omitempty"`
}

// Config returns the queue configuration for show export tasks.
func (t ExportShowTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "export_show",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ExportShowProcessor creates a processor function for ExportShowTask.
func ExportShowProcessor(exporter *Exporter) backlite.QueueProcessor[ExportShowTask] {
	return func(ctx context.Context, task ExportShowTask) error {
		if exporter == nil {
			return fmt.Errorf("exporter not configured")
		}

		format, err := taskFormat(task.Format)
		if err != nil {
			return err
		}
		if _, err := exporter.ExportShow(ctx, task.ShowID, format); err != nil {
			return fmt.Errorf("export show %d: %w", task.ShowID, err)
		}
		return nil
	}
}

// NewExportShowQueue creates a backlite queue for show export tasks.
func NewExportShowQueue(exporter *Exporter) backlite.Queue {
	return backlite.NewQueue(ExportShowProcessor(exporter))
}

func taskFormat(name string) (external.Format, error) {
	if name == "" {
		return "", nil
	}
	return external.ParseFormat(name)
}
