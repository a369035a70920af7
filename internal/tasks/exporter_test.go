package tasks

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mrlokans/clipcatalog/internal/audit"
	"github.com/mrlokans/clipcatalog/internal/catalog"
	auditRepo "github.com/mrlokans/clipcatalog/internal/database/audit"
	"github.com/mrlokans/clipcatalog/internal/entities"
	"github.com/mrlokans/clipcatalog/internal/external"
	"github.com/mrlokans/clipcatalog/internal/logging"
	"github.com/mrlokans/clipcatalog/internal/store"
)

// seedCatalog stores two shows, one with a producer and a 45s clip.
func seedCatalog(t *testing.T) (catalog.Factory, []uint) {
	t.Helper()
	ctx := context.Background()
	st := store.NewMemoryStore(store.WithCatalogConstraints())
	factory := func() *catalog.Catalog { return catalog.New(st) }

	cat := factory()
	show := &entities.Show{Name: "Nice Show"}
	other := &entities.Show{Name: "Quiet Show"}
	producer := &entities.Producer{Name: "Alex"}
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	stop := start.Add(45 * time.Second)
	clip := &entities.Clip{Name: "First Clip", StartTime: &start, StopTime: &stop}

	for _, e := range []catalog.Entity{show, other, producer, clip} {
		require.NoError(t, cat.Save(ctx, e))
	}
	link, err := cat.LinkProducer(ctx, producer, show)
	require.NoError(t, err)
	_, err = cat.SelectClip(ctx, clip, link)
	require.NoError(t, err)
	require.NoError(t, cat.Commit(ctx))

	return factory, []uint{show.ID, other.ID}
}

func TestExporter_ExportShow(t *testing.T) {
	factory, shows := seedCatalog(t)
	dir := filepath.Join(t.TempDir(), "exports")
	exporter := NewExporter(factory, dir, external.FormatXML, logging.Discard())

	path, err := exporter.ExportShow(context.Background(), shows[0], "")
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "show-1-"))
	assert.Equal(t, ".xml", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<name>Nice Show</name>")
	assert.Contains(t, string(data), "<name>Alex</name>")
	assert.Contains(t, string(data), "<total_duration>45s</total_duration>")
}

func TestExporter_ExportShowJSON(t *testing.T) {
	factory, shows := seedCatalog(t)
	exporter := NewExporter(factory, t.TempDir(), external.FormatXML, logging.Discard())

	path, err := exporter.ExportShow(context.Background(), shows[0], external.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, ".json", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"total_seconds": 45`)
}

func TestExporter_ExportMissingShow(t *testing.T) {
	factory, _ := seedCatalog(t)
	dir := t.TempDir()
	exporter := NewExporter(factory, dir, external.FormatXML, logging.Discard())

	_, err := exporter.ExportShow(context.Background(), 404, "")
	assert.ErrorIs(t, err, store.ErrNotFound)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExporter_ExportAll(t *testing.T) {
	factory, shows := seedCatalog(t)
	exporter := NewExporter(factory, t.TempDir(), external.FormatJSON, logging.Discard())

	paths, err := exporter.ExportAll(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, paths, len(shows))
}

func TestExporter_Prune(t *testing.T) {
	dir := t.TempDir()
	exporter := NewExporter(nil, dir, external.FormatXML, logging.Discard())
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	exporter.now = func() time.Time { return now }

	old := filepath.Join(dir, "show-1-old.xml")
	fresh := filepath.Join(dir, "show-1-fresh.xml")
	unrelated := filepath.Join(dir, "notes.txt")
	for _, p := range []string{old, fresh, unrelated} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
	require.NoError(t, os.Chtimes(old, now.Add(-48*time.Hour), now.Add(-48*time.Hour)))
	require.NoError(t, os.Chtimes(fresh, now.Add(-time.Hour), now.Add(-time.Hour)))
	require.NoError(t, os.Chtimes(unrelated, now.Add(-48*time.Hour), now.Add(-48*time.Hour)))

	removed, err := exporter.Prune(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	assert.NoFileExists(t, old)
	assert.FileExists(t, fresh)
	assert.FileExists(t, unrelated)
}

func TestExporter_PruneMissingDir(t *testing.T) {
	exporter := NewExporter(nil, filepath.Join(t.TempDir(), "missing"), external.FormatXML, logging.Discard())
	removed, err := exporter.Prune(time.Hour)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestExportShowProcessor(t *testing.T) {
	factory, shows := seedCatalog(t)
	dir := t.TempDir()
	exporter := NewExporter(factory, dir, external.FormatXML, logging.Discard())

	process := ExportShowProcessor(exporter)
	require.NoError(t, process(context.Background(), ExportShowTask{ShowID: shows[1], Format: "json"}))

	matches, err := filepath.Glob(filepath.Join(dir, "show-2-*.json"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	err = process(context.Background(), ExportShowTask{ShowID: shows[1], Format: "yaml"})
	assert.ErrorIs(t, err, external.ErrUnknownFormat)

	err = ExportShowProcessor(nil)(context.Background(), ExportShowTask{ShowID: 1})
	assert.Error(t, err)
}

func TestExportAllShowsProcessor(t *testing.T) {
	factory, _ := seedCatalog(t)
	dir := t.TempDir()
	exporter := NewExporter(factory, dir, external.FormatXML, logging.Discard())

	require.NoError(t, ExportAllShowsProcessor(exporter)(context.Background(), ExportAllShowsTask{}))

	matches, err := filepath.Glob(filepath.Join(dir, "show-*.xml"))
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func setupAudit(t *testing.T) (*audit.Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "audit.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.AuditEvent{}))
	return audit.NewService(auditRepo.NewRepository(db), logging.Discard()), db
}

func TestExporter_RecordsAuditEvents(t *testing.T) {
	factory, shows := seedCatalog(t)
	svc, db := setupAudit(t)
	exporter := NewExporter(factory, t.TempDir(), external.FormatXML, logging.Discard(), WithAudit(svc))
	ctx := context.Background()

	_, err := exporter.ExportShow(ctx, shows[0], "")
	require.NoError(t, err)
	_, err = exporter.ExportShow(ctx, 99, "")
	require.Error(t, err)

	var events []entities.AuditEvent
	require.NoError(t, db.Order("id").Find(&events).Error)
	require.Len(t, events, 2)
	assert.Equal(t, entities.AuditStatusSuccess, events[0].Status)
	assert.Contains(t, events[0].Metadata, "show-1-")
	assert.Equal(t, entities.AuditStatusFailed, events[1].Status)
	assert.Equal(t, uint(99), *events[1].EntityID)
}

func TestExporter_ApplyRetention(t *testing.T) {
	svc, db := setupAudit(t)
	dir := t.TempDir()
	exporter := NewExporter(nil, dir, external.FormatXML, logging.Discard(), WithAudit(svc))
	ctx := context.Background()

	old := filepath.Join(dir, "show-1-old.xml")
	require.NoError(t, os.WriteFile(old, []byte("x"), 0o644))
	stale := time.Now().Add(-72 * time.Hour)
	require.NoError(t, os.Chtimes(old, stale, stale))
	require.NoError(t, svc.Log(ctx, &entities.AuditEvent{
		EventType: entities.AuditEventExport,
		Action:    "show_export",
		Status:    entities.AuditStatusSuccess,
		CreatedAt: stale,
	}))

	files, events, err := exporter.ApplyRetention(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, files)
	assert.Equal(t, int64(1), events)

	var remaining []entities.AuditEvent
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, entities.AuditEventPrune, remaining[0].EventType)
}

func TestPruneExportsProcessor(t *testing.T) {
	dir := t.TempDir()
	exporter := NewExporter(nil, dir, external.FormatXML, logging.Discard())

	old := filepath.Join(dir, "show-2-old.json")
	require.NoError(t, os.WriteFile(old, []byte("{}"), 0o644))
	stale := time.Now().Add(-40 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(old, stale, stale))

	require.NoError(t, PruneExportsProcessor(exporter)(context.Background(), PruneExportsTask{}))
	assert.NoFileExists(t, old)

	assert.Error(t, PruneExportsProcessor(nil)(context.Background(), PruneExportsTask{}))
}
