package tasks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/clipcatalog/internal/audit"
	"github.com/mrlokans/clipcatalog/internal/catalog"
	"github.com/mrlokans/clipcatalog/internal/entities"
	"github.com/mrlokans/clipcatalog/internal/external"
	"github.com/mrlokans/clipcatalog/internal/store"
)

const snapshotPrefix = "show-"

// Exporter writes show snapshots into a directory.
type Exporter struct {
	catalogs catalog.Factory
	dir      string
	format   external.Format
	log      logrus.FieldLogger
	audit    *audit.Service
	now      func() time.Time
}

// ExporterOption configures NewExporter.
type ExporterOption func(*Exporter)

// WithAudit records every export and prune run.
func WithAudit(svc *audit.Service) ExporterOption {
	return func(e *Exporter) { e.audit = svc }
}

func NewExporter(catalogs catalog.Factory, dir string, format external.Format, log logrus.FieldLogger, opts ...ExporterOption) *Exporter {
	e := &Exporter{
		catalogs: catalogs,
		dir:      dir,
		format:   format,
		log:      log.WithField("component", "exporter"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Dir returns the directory snapshots are written to.
func (e *Exporter) Dir() string {
	return e.dir
}

// ExportShow writes one snapshot file and returns its path. An empty
// format falls back to the exporter default.
func (e *Exporter) ExportShow(ctx context.Context, showID uint, format external.Format) (string, error) {
	path, err := e.writeShow(ctx, showID, format)
	e.audit.LogExport(ctx, showID, path, err)
	return path, err
}

func (e *Exporter) writeShow(ctx context.Context, showID uint, format external.Format) (string, error) {
	if format == "" {
		format = e.format
	}

	data, err := e.encodeShow(ctx, showID, format)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	name := fmt.Sprintf("%s%d-%s%s", snapshotPrefix, showID, uuid.NewString(), format.Extension())
	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	e.log.WithFields(logrus.Fields{"show_id": showID, "path": path}).Info("Exported show snapshot")
	return path, nil
}

func (e *Exporter) encodeShow(ctx context.Context, showID uint, format external.Format) ([]byte, error) {
	cat := e.catalogs()
	defer cat.Close(ctx)

	snap, err := cat.Snapshot(ctx, &entities.Show{ID: showID})
	if err != nil {
		return nil, err
	}
	return snap.Encode(format)
}

// ExportAll writes a snapshot for every show. A failing show does not stop
// the others; all failures are returned together.
func (e *Exporter) ExportAll(ctx context.Context, format external.Format) ([]string, error) {
	ids, err := e.showIDs(ctx)
	if err != nil {
		return nil, err
	}

	var (
		paths []string
		errs  []error
	)
	for _, id := range ids {
		path, err := e.ExportShow(ctx, id, format)
		if err != nil {
			errs = append(errs, fmt.Errorf("show %d: %w", id, err))
			continue
		}
		paths = append(paths, path)
	}
	return paths, errors.Join(errs...)
}

func (e *Exporter) showIDs(ctx context.Context) ([]uint, error) {
	cat := e.catalogs()
	defer cat.Close(ctx)

	ids, err := cat.Store().Pluck(ctx, store.TableShow, store.IDColumn, nil)
	if err != nil {
		return nil, fmt.Errorf("list shows: %w", err)
	}
	return ids, nil
}

// Prune removes snapshot files last modified before the retention window.
func (e *Exporter) Prune(retention time.Duration) (int, error) {
	entries, err := os.ReadDir(e.dir)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read export dir: %w", err)
	}

	cutoff := e.now().Add(-retention)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), snapshotPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return removed, err
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(e.dir, entry.Name())); err != nil {
			return removed, fmt.Errorf("remove %s: %w", entry.Name(), err)
		}
		removed++
	}
	return removed, nil
}

// ApplyRetention prunes old snapshot files, then old audit events, and
// records the run.
func (e *Exporter) ApplyRetention(ctx context.Context, retention time.Duration) (int, int64, error) {
	removed, err := e.Prune(retention)
	if err != nil {
		e.audit.LogPrune(ctx, removed, 0, retention, err)
		return removed, 0, fmt.Errorf("prune exports: %w", err)
	}

	events, err := e.audit.DeleteOldEvents(ctx, retention)
	e.audit.LogPrune(ctx, removed, events, retention, err)
	if err != nil {
		return removed, events, fmt.Errorf("prune audit events: %w", err)
	}
	return removed, events, nil
}
