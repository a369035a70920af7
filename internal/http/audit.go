package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/clipcatalog/internal/audit"
	auditRepo "github.com/mrlokans/clipcatalog/internal/database/audit"
	"github.com/mrlokans/clipcatalog/internal/entities"
)

const (
	defaultAuditLimit = 25
	maxAuditLimit     = 100
)

type AuditController struct {
	auditService *audit.Service
}

func NewAuditController(auditService *audit.Service) *AuditController {
	return &AuditController{
		auditService: auditService,
	}
}

// AuditEventsResponse is one page of audit events.
type AuditEventsResponse struct {
	Events      []entities.AuditEvent `json:"events"`
	Page        int                   `json:"page"`
	Limit       int                   `json:"limit"`
	TotalPages  int                   `json:"total_pages"`
	TotalEvents int64                 `json:"total_events"`
}

// GetAuditEvents returns paginated audit events as JSON
// GET /api/audit?type=export&entity=tbl_show&page=1&limit=25
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultAuditLimit)))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxAuditLimit {
		limit = defaultAuditLimit
	}

	events, total, err := ac.auditService.Events(c.Request.Context(), auditRepo.Filter{
		EventType:  entities.AuditEventType(c.Query("type")),
		EntityType: c.Query("entity"),
		Limit:      limit,
		Offset:     (page - 1) * limit,
	})
	if err != nil {
		respondInternalError(c, err, "Failed to load audit events")
		return
	}
	if events == nil {
		events = []entities.AuditEvent{}
	}

	totalPages := (int(total) + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}

	c.JSON(http.StatusOK, AuditEventsResponse{
		Events:      events,
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages,
		TotalEvents: total,
	})
}
