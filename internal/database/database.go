package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/clipcatalog/internal/audit"
	"github.com/mrlokans/clipcatalog/internal/catalog"
	auditRepo "github.com/mrlokans/clipcatalog/internal/database/audit"
	"github.com/mrlokans/clipcatalog/internal/entities"
	"github.com/mrlokans/clipcatalog/internal/logging"
	"github.com/mrlokans/clipcatalog/internal/store"
)

type Database struct {
	DB  *gorm.DB
	log logrus.FieldLogger
}

type options struct {
	log    *logrus.Logger
	logSQL bool
}

// Option configures NewDatabase.
type Option func(*options)

// WithLogger routes database and gorm messages to log.
func WithLogger(log *logrus.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithSQLLogging logs every statement at info level.
func WithSQLLogging(enabled bool) Option {
	return func(o *options) { o.logSQL = enabled }
}

// NewDatabase opens the SQLite file at dbPath and migrates the catalog tables.
func NewDatabase(dbPath string, opts ...Option) (*Database, error) {
	o := options{log: logging.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	level := logger.Warn
	if o.logSQL {
		level = logger.Info
	}
	gormLogger := logger.New(o.log, logger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})

	db, err := gorm.Open(sqlite.Open(dsn(dbPath)), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// One connection: every store holds a transaction for its unit of work.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	models := append(entities.Models(), &entities.AuditEvent{})
	if err := db.AutoMigrate(models...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	o.log.WithField("path", dbPath).Info("Database initialized")

	return &Database{DB: db, log: o.log}, nil
}

func dsn(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_busy_timeout=5000"
}

// NewStore opens a record store for one unit of work.
func (d *Database) NewStore() *store.GormStore {
	return store.NewGormStore(d.DB)
}

// NewCatalog opens a catalog over a fresh store.
func (d *Database) NewCatalog() *catalog.Catalog {
	return catalog.New(d.NewStore(), catalog.WithLogger(d.log))
}

// NewAuditService records activity in the audit_events table. Its writes
// need the connection, so call it only while no catalog is open.
func (d *Database) NewAuditService() *audit.Service {
	return audit.NewService(auditRepo.NewRepository(d.DB), d.log)
}

// Ping checks that the connection is alive.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
