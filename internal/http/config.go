package http

import (
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/clipcatalog/internal/audit"
	"github.com/mrlokans/clipcatalog/internal/catalog"
	"github.com/mrlokans/clipcatalog/internal/database"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Database is pinged by the health check.
	Database *database.Database

	// Catalogs opens one catalog per request.
	Catalogs catalog.Factory

	// Exports is nil when the task queue is disabled.
	Exports ExportQueue

	// ExportDir is where snapshot files are written. The health check
	// reports whether it is writable.
	ExportDir string

	// Audit serves GET /api/audit. A nil service lists nothing.
	Audit *audit.Service

	// DemoMode rejects every write request with 403.
	DemoMode bool

	Logger  logrus.FieldLogger
	Version string
}
