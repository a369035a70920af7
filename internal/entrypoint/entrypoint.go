package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/clipcatalog/internal/config"
	"github.com/mrlokans/clipcatalog/internal/database"
	"github.com/mrlokans/clipcatalog/internal/demo"
	"github.com/mrlokans/clipcatalog/internal/external"
	http_controllers "github.com/mrlokans/clipcatalog/internal/http"
	"github.com/mrlokans/clipcatalog/internal/logging"
	"github.com/mrlokans/clipcatalog/internal/scheduler"
	"github.com/mrlokans/clipcatalog/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, log logrus.FieldLogger, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("listen")
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.WithField("timeout", timeout).Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work before the server
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("Server shutdown")
	}

	log.Info("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	log.WithField("version", version).Info("Starting Clip Catalog")

	exportFormat, err := external.ParseFormat(cfg.Export.Format)
	if err != nil {
		log.WithError(err).Fatal("Invalid EXPORT_FORMAT")
	}

	db, err := database.NewDatabase(cfg.Database.Path,
		database.WithLogger(log),
		database.WithSQLLogging(cfg.Database.LogSQL),
	)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.WithError(err).Error("Error closing database")
		}
	}()

	if cfg.Demo.Seed {
		seedDemo(db, log)
	}

	auditService := db.NewAuditService()
	exporter := tasks.NewExporter(db.NewCatalog, cfg.Export.Dir, exportFormat, log,
		tasks.WithAudit(auditService))

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg, log)
		if err != nil {
			log.WithError(err).Fatal("Failed to initialize task queue")
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.WithError(err).Error("Error closing task client")
			}
		}()

		taskClient.Register(
			tasks.NewExportShowQueue(exporter),
			tasks.NewExportAllShowsQueue(exporter),
			tasks.NewPruneExportsQueue(exporter),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	var snapshots *scheduler.SnapshotScheduler
	if cfg.SnapshotSchedule.Enabled {
		snapshots = scheduler.NewSnapshotScheduler(cfg.SnapshotSchedule.Schedule,
			snapshotJob(taskClient, exporter, cfg.Export.RetentionDays), log)
		if err := snapshots.Start(context.Background()); err != nil {
			log.WithError(err).Fatal("Failed to start snapshot scheduler")
		}
	}

	routerCfg := http_controllers.RouterConfig{
		Database:  db,
		Catalogs:  db.NewCatalog,
		ExportDir: cfg.Export.Dir,
		Audit:     auditService,
		DemoMode:  cfg.Demo.Enabled,
		Logger:    log,
		Version:   version,
	}
	// A nil *tasks.Client must not become a non-nil interface.
	if taskClient != nil {
		routerCfg.Exports = taskClient
	}

	if cfg.Demo.Enabled {
		log.Info("Demo mode enabled, write operations will be blocked")
	}
	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if snapshots != nil {
			snapshots.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, log, onShutdown)
}

// snapshotJob exports every show and prunes old snapshots. With a task
// queue the work is enqueued, otherwise it runs inline.
func snapshotJob(taskClient *tasks.Client, exporter *tasks.Exporter, retentionDays int) scheduler.Job {
	return func(ctx context.Context) error {
		if taskClient != nil {
			if _, err := taskClient.EnqueueAllShowsExport(""); err != nil {
				return err
			}
			_, err := taskClient.EnqueuePruneExports(retentionDays)
			return err
		}

		if _, err := exporter.ExportAll(ctx, ""); err != nil {
			return err
		}
		_, _, err := exporter.ApplyRetention(ctx, time.Duration(retentionDays)*24*time.Hour)
		return err
	}
}

func seedDemo(db *database.Database, log logrus.FieldLogger) {
	ctx := context.Background()
	cat := db.NewCatalog()
	defer cat.Close(ctx)

	sum, err := demo.Seed(ctx, cat, demo.DefaultDataset())
	if err != nil {
		log.WithError(err).Error("Failed to seed demo catalog")
		return
	}
	log.WithFields(logrus.Fields{
		"shows":   sum.Shows,
		"skipped": sum.Skipped,
	}).Info("Demo catalog seeded")
}
