package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/sirupsen/logrus"
)

// PruneExportsTask removes snapshot files and audit events older than the
// retention period.
type PruneExportsTask struct {
	RetentionDays int `json:"retention_days"`
}

// Config returns the queue configuration for export pruning tasks.
func (t PruneExportsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "prune_exports",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// PruneExportsProcessor creates a processor function for PruneExportsTask.
func PruneExportsProcessor(exporter *Exporter) backlite.QueueProcessor[PruneExportsTask] {
	return func(ctx context.Context, task PruneExportsTask) error {
		if exporter == nil {
			return fmt.Errorf("exporter not configured")
		}

		retentionDays := task.RetentionDays
		if retentionDays <= 0 {
			retentionDays = 30
		}

		removed, events, err := exporter.ApplyRetention(ctx, time.Duration(retentionDays)*24*time.Hour)
		if err != nil {
			return err
		}

		exporter.log.WithFields(logrus.Fields{
			"removed":        removed,
			"audit_events":   events,
			"retention_days": retentionDays,
		}).Info("Pruned old snapshots")
		return nil
	}
}

// NewPruneExportsQueue creates a backlite queue for export pruning tasks.
func NewPruneExportsQueue(exporter *Exporter) backlite.Queue {
	return backlite.NewQueue(PruneExportsProcessor(exporter))
}
