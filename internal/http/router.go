package http

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/clipcatalog/internal/demo"
	"github.com/mrlokans/clipcatalog/internal/entities"
)

// entityRoutes is implemented by every EntityController instantiation.
type entityRoutes interface {
	Create(*gin.Context)
	Update(*gin.Context)
	Get(*gin.Context)
	GetXML(*gin.Context)
	CreateXML(*gin.Context)
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	router := gin.New()
	router.Use(RequestLogger(log))
	router.Use(gin.Recovery())
	router.Use(demo.NewMiddleware(cfg.DemoMode).Handler())

	health := NewHealthController(cfg)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api")

	registerEntity(api.Group("/clips"), NewEntityController[entities.Clip](cfg.Catalogs, "clip"))
	registerEntity(api.Group("/producers"), NewEntityController[entities.Producer](cfg.Catalogs, "producer"))
	registerEntity(api.Group("/shows"), NewEntityController[entities.Show](cfg.Catalogs, "show"))

	shows := NewShowsController(cfg.Catalogs, cfg.Exports)
	api.POST("/shows/:id/producers", shows.LinkProducer)
	api.GET("/shows/:id/producers", shows.Producers)
	api.GET("/shows/:id/clips", shows.Clips)
	api.GET("/shows/:id/duration", shows.Duration)
	api.GET("/shows/:id/snapshot", shows.Snapshot)
	api.POST("/shows/:id/export", shows.Export)
	api.POST("/producer-shows/:id/clips", shows.SelectClip)

	auditController := NewAuditController(cfg.Audit)
	api.GET("/audit", auditController.GetAuditEvents)

	return router
}

func registerEntity(group *gin.RouterGroup, ec entityRoutes) {
	group.POST("", ec.Create)
	group.POST("/xml", ec.CreateXML)
	group.GET("/:id", ec.Get)
	group.PUT("/:id", ec.Update)
	group.GET("/:id/xml", ec.GetXML)
}
