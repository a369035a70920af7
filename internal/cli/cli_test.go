package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/clipcatalog/internal/database"
	"github.com/mrlokans/clipcatalog/internal/database/audit"
	"github.com/mrlokans/clipcatalog/internal/entities"
)

func runDemo(t *testing.T, dbPath string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := NewDemoCommand()
	cmd.Out = &out
	require.NoError(t, cmd.ParseFlags([]string{"-db", dbPath}))
	require.NoError(t, cmd.Run())
	return out.String()
}

func TestDemoCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "demo.db")

	out := runDemo(t, dbPath)
	assert.Contains(t, out, "Created 3 shows, 3 producers, 4 clips (0 shows already present)")
	assert.Contains(t, out, "Show_1<Nice Show>")
	assert.Contains(t, out, "producer: Alex")
	assert.Contains(t, out, "clip: First Clip (1m30s)")
	assert.Contains(t, out, "total: 5m45s")

	out = runDemo(t, dbPath)
	assert.Contains(t, out, "Created 0 shows, 0 producers, 0 clips (3 shows already present)")
}

func TestExportCommand_ParseFlags(t *testing.T) {
	cmd := NewExportCommand()
	assert.Error(t, cmd.ParseFlags([]string{"-id", "1"}))

	cmd = NewExportCommand()
	assert.Error(t, cmd.ParseFlags([]string{"-type", "clip"}))

	cmd = NewExportCommand()
	require.NoError(t, cmd.ParseFlags([]string{"-type", "show", "-name", "Nice Show"}))
	assert.Equal(t, "xml", cmd.Format)
}

func TestExportCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "catalog.db")
	runDemo(t, dbPath)

	export := func(args ...string) (string, error) {
		var out bytes.Buffer
		cmd := NewExportCommand()
		cmd.Out = &out
		require.NoError(t, cmd.ParseFlags(append([]string{"-db", dbPath}, args...)))
		err := cmd.Run()
		return out.String(), err
	}

	out, err := export("-type", "producer", "-id", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "<tbl_producer>")
	assert.Contains(t, out, "<name>Alex</name>")

	out, err = export("-type", "clip", "-name", "First Clip", "-format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "First Clip"`)

	out, err = export("-type", "show", "-name", "Morning News", "-snapshot")
	require.NoError(t, err)
	assert.Contains(t, out, "<show_snapshot>")
	assert.Contains(t, out, "<name>Sam</name>")
	assert.Contains(t, out, "<total_duration>5m45s</total_duration>")

	_, err = export("-type", "clip", "-id", "99")
	assert.Error(t, err)

	_, err = export("-type", "clip", "-id", "1", "-snapshot")
	assert.Error(t, err)

	_, err = export("-type", "episode", "-id", "1")
	assert.Error(t, err)
}

func TestImportCommand(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "catalog.db")

	doc := filepath.Join(dir, "producer.xml")
	require.NoError(t, os.WriteFile(doc, []byte(`<tbl_producer>
  <name>Jordan</name>
  <phone>555-0199</phone>
  <email>jordan@example.com</email>
</tbl_producer>`), 0o644))

	var out bytes.Buffer
	cmd := NewImportCommand()
	cmd.Out = &out
	require.NoError(t, cmd.ParseFlags([]string{"-db", dbPath, "-type", "producer", "-file", doc}))
	require.NoError(t, cmd.Run())
	assert.Contains(t, out.String(), "Saved Producer_1<Jordan, 555-0199, jordan@example.com>")

	jsonDoc := filepath.Join(dir, "producer.json")
	require.NoError(t, os.WriteFile(jsonDoc, []byte(`{"id": 1, "name": "Jordan", "email": "j@example.com"}`), 0o644))

	out.Reset()
	cmd = NewImportCommand()
	cmd.Out = &out
	require.NoError(t, cmd.ParseFlags([]string{"-db", dbPath, "-type", "producer", "-file", jsonDoc}))
	require.NoError(t, cmd.Run())
	assert.Contains(t, out.String(), "Saved Producer_1<Jordan, , j@example.com>")

	var exported bytes.Buffer
	export := NewExportCommand()
	export.Out = &exported
	require.NoError(t, export.ParseFlags([]string{"-db", dbPath, "-type", "producer", "-id", "1", "-format", "json"}))
	require.NoError(t, export.Run())
	assert.Contains(t, exported.String(), `"email": "j@example.com"`)
	assert.Contains(t, exported.String(), `"phone": ""`)

	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()
	events, total, err := db.NewAuditService().Events(context.Background(), audit.Filter{EventType: entities.AuditEventImport})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "producer_import", events[0].Action)
}

func TestImportCommand_DryRun(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "catalog.db")
	doc := filepath.Join(dir, "show.xml")
	require.NoError(t, os.WriteFile(doc, []byte(`<tbl_show><name>Draft</name></tbl_show>`), 0o644))

	var out bytes.Buffer
	cmd := NewImportCommand()
	cmd.Out = &out
	require.NoError(t, cmd.ParseFlags([]string{"-db", dbPath, "-type", "show", "-file", doc, "-dry-run"}))
	require.NoError(t, cmd.Run())
	assert.True(t, strings.HasPrefix(out.String(), "Dry run:"))

	export := NewExportCommand()
	export.Out = &bytes.Buffer{}
	require.NoError(t, export.ParseFlags([]string{"-db", dbPath, "-type", "show", "-name", "Draft"}))
	assert.Error(t, export.Run(), "dry run must not persist the show")
}

func TestImportCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "catalog.db")

	noExt := filepath.Join(dir, "producer")
	require.NoError(t, os.WriteFile(noExt, []byte(`<tbl_producer/>`), 0o644))
	cmd := NewImportCommand()
	require.NoError(t, cmd.ParseFlags([]string{"-db", dbPath, "-type", "producer", "-file", noExt}))
	assert.Error(t, cmd.Run())

	long := filepath.Join(dir, "show.xml")
	require.NoError(t, os.WriteFile(long, []byte(`<tbl_show><name>`+strings.Repeat("x", 40)+`</name></tbl_show>`), 0o644))
	cmd = NewImportCommand()
	cmd.Out = &bytes.Buffer{}
	require.NoError(t, cmd.ParseFlags([]string{"-db", dbPath, "-type", "show", "-file", long}))
	assert.Error(t, cmd.Run())

	cmd = NewImportCommand()
	assert.Error(t, cmd.ParseFlags([]string{"-type", "show"}))
}

func TestNewEntity(t *testing.T) {
	for _, kind := range []string{"clip", "Producer", " show ", "producer-show", "selected-clip"} {
		e, err := newEntity(kind)
		require.NoError(t, err, kind)
		assert.NotNil(t, e)
	}
	_, err := newEntity("episode")
	assert.Error(t, err)
}
