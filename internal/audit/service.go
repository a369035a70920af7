// Package audit records catalog imports, snapshot exports and pruning runs.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mrlokans/clipcatalog/internal/catalog"
	auditRepo "github.com/mrlokans/clipcatalog/internal/database/audit"
	"github.com/mrlokans/clipcatalog/internal/entities"
	"github.com/mrlokans/clipcatalog/internal/store"
)

const maxErrorLen = 500

// Service provides high-level audit logging functionality.
// A nil *Service discards every event.
type Service struct {
	repo *auditRepo.Repository
	log  logrus.FieldLogger
}

// NewService creates a new audit service.
func NewService(repo *auditRepo.Repository, log logrus.FieldLogger) *Service {
	return &Service{repo: repo, log: log.WithField("component", "audit")}
}

// Log records a generic audit event.
func (s *Service) Log(ctx context.Context, event *entities.AuditEvent) error {
	if s == nil {
		return nil
	}
	return s.repo.LogEvent(ctx, event)
}

// record saves event and only logs a failure. Callers must not hold an
// open catalog transaction.
func (s *Service) record(ctx context.Context, event *entities.AuditEvent, err error) {
	if s == nil {
		return
	}
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), maxErrorLen)
	}
	if err := s.repo.LogEvent(ctx, event); err != nil {
		s.log.WithError(err).WithField("action", event.Action).Warn("Failed to log audit event")
	}
}

// LogImport records an entity created or updated from an external document.
func (s *Service) LogImport(ctx context.Context, e catalog.Entity, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventImport,
		Action:      kind(e.TableName()) + "_import",
		Description: fmt.Sprintf("Imported %v", e),
		EntityType:  e.TableName(),
		Status:      entities.AuditStatusSuccess,
	}
	if id := e.Identifier(); id != 0 {
		event.EntityID = &id
	}
	s.record(ctx, event, err)
}

// LogExport records a show snapshot written to path.
func (s *Service) LogExport(ctx context.Context, showID uint, path string, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventExport,
		Action:      "show_export",
		Description: fmt.Sprintf("Exported show %d", showID),
		EntityType:  store.TableShow,
		EntityID:    &showID,
		Status:      entities.AuditStatusSuccess,
	}
	if path != "" {
		event.Metadata = metadata(map[string]any{"path": path})
	}
	s.record(ctx, event, err)
}

// LogPrune records a retention run.
func (s *Service) LogPrune(ctx context.Context, files int, events int64, retention time.Duration, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventPrune,
		Action:      "snapshot_prune",
		Description: fmt.Sprintf("Removed %d snapshots and %d audit events", files, events),
		Metadata: metadata(map[string]any{
			"files":          files,
			"events":         events,
			"retention_days": int(retention / (24 * time.Hour)),
		}),
		Status: entities.AuditStatusSuccess,
	}
	s.record(ctx, event, err)
}

// Events retrieves paginated audit events.
func (s *Service) Events(ctx context.Context, f auditRepo.Filter) ([]entities.AuditEvent, int64, error) {
	if s == nil {
		return nil, 0, nil
	}
	return s.repo.Events(ctx, f)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	if s == nil {
		return 0, nil
	}
	return s.repo.DeleteOldEvents(ctx, time.Now().Add(-retention))
}

func kind(table string) string {
	return strings.TrimPrefix(table, "tbl_")
}

func metadata(m map[string]any) string {
	b, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return string(b)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
