package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/clipcatalog/internal/catalog"
	"github.com/mrlokans/clipcatalog/internal/entities"
	"github.com/mrlokans/clipcatalog/internal/external"
)

// ExportQueue enqueues background snapshot exports.
type ExportQueue interface {
	EnqueueShowExport(showID uint, format string) (string, error)
}

// DurationResponse is the total clip duration of a show.
type DurationResponse struct {
	ShowID        uint    `json:"show_id"`
	TotalDuration string  `json:"total_duration"`
	TotalSeconds  float64 `json:"total_seconds"`
}

type ShowsController struct {
	catalogs catalog.Factory
	exports  ExportQueue
}

func NewShowsController(catalogs catalog.Factory, exports ExportQueue) *ShowsController {
	return &ShowsController{catalogs: catalogs, exports: exports}
}

// LinkProducer attaches a producer to a show
// POST /api/shows/:id/producers
func (sc *ShowsController) LinkProducer(c *gin.Context) {
	showID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		ProducerID uint `json:"producer_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "producer_id is required")
		return
	}

	ctx := c.Request.Context()
	cat := sc.catalogs()
	defer cat.Close(ctx)

	show := &entities.Show{ID: showID}
	if err := cat.Fetch(ctx, show); err != nil {
		respondCatalogError(c, err, "show", "link producer")
		return
	}
	producer := &entities.Producer{ID: req.ProducerID}
	if err := cat.Fetch(ctx, producer); err != nil {
		respondCatalogError(c, err, "producer", "link producer")
		return
	}

	link, err := cat.LinkProducer(ctx, producer, show)
	if err != nil {
		respondCatalogError(c, err, "producer link", "link producer")
		return
	}
	if err := cat.Commit(ctx); err != nil {
		respondInternalError(c, err, "commit producer link")
		return
	}
	respondCreated(c, link)
}

// SelectClip attaches a clip to a producer-show link
// POST /api/producer-shows/:id/clips
func (sc *ShowsController) SelectClip(c *gin.Context) {
	linkID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		ClipID uint `json:"clip_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "clip_id is required")
		return
	}

	ctx := c.Request.Context()
	cat := sc.catalogs()
	defer cat.Close(ctx)

	link := &entities.ProducerShow{ID: linkID}
	if err := cat.Fetch(ctx, link); err != nil {
		respondCatalogError(c, err, "producer link", "select clip")
		return
	}
	clip := &entities.Clip{ID: req.ClipID}
	if err := cat.Fetch(ctx, clip); err != nil {
		respondCatalogError(c, err, "clip", "select clip")
		return
	}

	selected, err := cat.SelectClip(ctx, clip, link)
	if err != nil {
		respondCatalogError(c, err, "clip selection", "select clip")
		return
	}
	if err := cat.Commit(ctx); err != nil {
		respondInternalError(c, err, "commit clip selection")
		return
	}
	respondCreated(c, selected)
}

// Producers lists the producers of a show, id-only unless sync=true
// GET /api/shows/:id/producers
func (sc *ShowsController) Producers(c *gin.Context) {
	sc.withShow(c, "list producers", func(cat *catalog.Catalog, show *entities.Show) {
		ctx := c.Request.Context()
		producers, err := cat.Producers(ctx, show)
		if err != nil {
			respondCatalogError(c, err, "show", "list producers")
			return
		}
		if querySync(c) {
			for _, p := range producers {
				if err := cat.Sync(ctx, p); err != nil {
					respondCatalogError(c, err, "producer", "sync producer")
					return
				}
			}
		}
		c.JSON(http.StatusOK, producers)
	})
}

// Clips lists the clips selected for a show, id-only unless sync=true
// GET /api/shows/:id/clips
func (sc *ShowsController) Clips(c *gin.Context) {
	sc.withShow(c, "list clips", func(cat *catalog.Catalog, show *entities.Show) {
		ctx := c.Request.Context()
		clips, err := cat.Clips(ctx, show)
		if err != nil {
			respondCatalogError(c, err, "show", "list clips")
			return
		}
		if querySync(c) {
			for _, clip := range clips {
				if err := cat.Sync(ctx, clip); err != nil {
					respondCatalogError(c, err, "clip", "sync clip")
					return
				}
			}
		}
		c.JSON(http.StatusOK, clips)
	})
}

// Duration returns the summed duration of a show's clips
// GET /api/shows/:id/duration
func (sc *ShowsController) Duration(c *gin.Context) {
	sc.withShow(c, "show duration", func(cat *catalog.Catalog, show *entities.Show) {
		total, err := cat.TotalClipDuration(c.Request.Context(), show)
		if err != nil {
			respondCatalogError(c, err, "show", "show duration")
			return
		}
		c.JSON(http.StatusOK, DurationResponse{
			ShowID:        show.ID,
			TotalDuration: total.String(),
			TotalSeconds:  total.Seconds(),
		})
	})
}

// Snapshot renders a show with its producers and clips
// GET /api/shows/:id/snapshot?format=xml|json
func (sc *ShowsController) Snapshot(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	format, ok := parseFormatQuery(c, external.FormatJSON)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	cat := sc.catalogs()
	defer cat.Close(ctx)

	snap, err := cat.Snapshot(ctx, &entities.Show{ID: id})
	if err != nil {
		respondCatalogError(c, err, "show", "snapshot")
		return
	}
	data, err := snap.Encode(format)
	if err != nil {
		respondInternalError(c, err, "encode snapshot")
		return
	}
	respondDocument(c, http.StatusOK, format, data)
}

// Export queues a background snapshot export
// POST /api/shows/:id/export?format=xml|json
func (sc *ShowsController) Export(c *gin.Context) {
	if sc.exports == nil {
		respondError(c, http.StatusServiceUnavailable, "task queue is disabled")
		return
	}
	format, ok := parseFormatQuery(c, "")
	if !ok {
		return
	}

	var showID uint
	found := false
	sc.withShow(c, "export show", func(_ *catalog.Catalog, show *entities.Show) {
		showID = show.ID
		found = true
	})
	if !found {
		return
	}

	taskID, err := sc.exports.EnqueueShowExport(showID, string(format))
	if err != nil {
		respondInternalError(c, err, "enqueue export")
		return
	}
	respondAccepted(c, "export queued", gin.H{"task_id": taskID, "show_id": showID})
}

// withShow loads the show named by the id parameter and runs fn with the
// open catalog. Errors are written to the response.
func (sc *ShowsController) withShow(c *gin.Context, context string, fn func(*catalog.Catalog, *entities.Show)) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	cat := sc.catalogs()
	defer cat.Close(ctx)

	show := &entities.Show{ID: id}
	if err := cat.Fetch(ctx, show); err != nil {
		respondCatalogError(c, err, "show", context)
		return
	}
	fn(cat, show)
}
