package http

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/clipcatalog/internal/database"
)

const (
	checkOK            = "ok"
	checkNotConfigured = "not configured"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// HealthController reports whether the catalog database answers and the
// snapshot directory accepts files. The task queue state is informational.
type HealthController struct {
	db           *database.Database
	exportDir    string
	tasksEnabled bool
	version      string
}

func NewHealthController(cfg RouterConfig) *HealthController {
	return &HealthController{
		db:           cfg.Database,
		exportDir:    cfg.ExportDir,
		tasksEnabled: cfg.Exports != nil,
		version:      cfg.Version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := map[string]string{
		"database":   h.checkDatabase(),
		"export_dir": h.checkExportDir(),
		"tasks":      "disabled",
	}
	if h.tasksEnabled {
		checks["tasks"] = "enabled"
	}

	status := "healthy"
	for _, name := range []string{"database", "export_dir"} {
		if v := checks[name]; v != checkOK && v != checkNotConfigured {
			status = "unhealthy"
		}
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	})
}

func (h *HealthController) checkDatabase() string {
	if h.db == nil {
		return checkNotConfigured
	}
	if err := h.db.Ping(); err != nil {
		return "error: " + err.Error()
	}
	return checkOK
}

// checkExportDir creates the directory the way the exporter does and
// writes a throwaway file into it.
func (h *HealthController) checkExportDir() string {
	if h.exportDir == "" {
		return checkNotConfigured
	}
	if err := os.MkdirAll(h.exportDir, 0o755); err != nil {
		return "error: " + err.Error()
	}
	f, err := os.CreateTemp(h.exportDir, ".health-*")
	if err != nil {
		return "error: " + err.Error()
	}
	name := f.Name()
	f.Close()
	if err := os.Remove(name); err != nil {
		return "error: " + err.Error()
	}
	return checkOK
}
