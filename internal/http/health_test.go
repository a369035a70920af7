package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/clipcatalog/internal/database"
	"github.com/mrlokans/clipcatalog/internal/logging"
)

func getHealth(t *testing.T, cfg RouterConfig) (int, HealthResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg.Logger = logging.Discard()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	NewRouter(cfg).ServeHTTP(w, req)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return w.Code, response
}

func openHealthDB(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "health.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestHealth_AllChecksPass(t *testing.T) {
	exportDir := filepath.Join(t.TempDir(), "snapshots")

	code, response := getHealth(t, RouterConfig{
		Database:  openHealthDB(t),
		Exports:   &fakeExportQueue{},
		ExportDir: exportDir,
		Version:   "1.4.0",
	})

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", response.Status)
	assert.Equal(t, "1.4.0", response.Version)
	assert.Contains(t, response.Time, "T")
	assert.Equal(t, map[string]string{
		"database":   "ok",
		"export_dir": "ok",
		"tasks":      "enabled",
	}, response.Checks)

	entries, err := os.ReadDir(exportDir)
	require.NoError(t, err, "export dir should be created")
	assert.Empty(t, entries, "write check must not leave files behind")
}

func TestHealth_TasksDisabledStaysHealthy(t *testing.T) {
	code, response := getHealth(t, RouterConfig{
		Database:  openHealthDB(t),
		ExportDir: t.TempDir(),
	})

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", response.Status)
	assert.Equal(t, "disabled", response.Checks["tasks"])
}

func TestHealth_ExportDirNotWritable(t *testing.T) {
	// A regular file where a directory is expected.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	code, response := getHealth(t, RouterConfig{
		Database:  openHealthDB(t),
		Exports:   &fakeExportQueue{},
		ExportDir: filepath.Join(blocker, "snapshots"),
	})

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", response.Status)
	assert.Equal(t, "ok", response.Checks["database"])
	assert.Contains(t, response.Checks["export_dir"], "error")
	assert.Equal(t, "enabled", response.Checks["tasks"])
}

func TestHealth_DatabaseClosed(t *testing.T) {
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "closed.db"))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	code, response := getHealth(t, RouterConfig{Database: db, ExportDir: t.TempDir()})

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", response.Status)
	assert.Contains(t, response.Checks["database"], "error")
	assert.Equal(t, "ok", response.Checks["export_dir"])
}

func TestHealth_NothingConfigured(t *testing.T) {
	code, response := getHealth(t, RouterConfig{})

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", response.Status)
	assert.Empty(t, response.Version)
	assert.Equal(t, map[string]string{
		"database":   "not configured",
		"export_dir": "not configured",
		"tasks":      "disabled",
	}, response.Checks)
}

func TestNewHealthController_ReadsRouterConfig(t *testing.T) {
	db := openHealthDB(t)

	h := NewHealthController(RouterConfig{Database: db, Exports: &fakeExportQueue{}, ExportDir: "/srv/snapshots", Version: "2.0.0"})
	assert.Same(t, db, h.db)
	assert.True(t, h.tasksEnabled)
	assert.Equal(t, "/srv/snapshots", h.exportDir)
	assert.Equal(t, "2.0.0", h.version)

	assert.False(t, NewHealthController(RouterConfig{}).tasksEnabled)
}
