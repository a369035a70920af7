package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/clipcatalog/internal/catalog"
	"github.com/mrlokans/clipcatalog/internal/external"
	"github.com/mrlokans/clipcatalog/internal/store"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (validation errors, etc.)
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found", Code: "not_found"})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	loggerFrom(c).WithError(err).WithField("context", context).Error("Internal error")
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondError sends an error response with the given status code.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// respondCatalogError maps catalog and store errors onto HTTP statuses.
func respondCatalogError(c *gin.Context, err error, resource, context string) {
	var verr *catalog.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Code:    "validation_failed",
			Details: verr.Fields,
		})
	case errors.Is(err, store.ErrNotFound):
		respondNotFound(c, resource)
	case errors.Is(err, store.ErrDuplicate):
		c.JSON(http.StatusConflict, ErrorResponse{Error: resource + " already exists", Code: "duplicate"})
	case errors.Is(err, catalog.ErrNoIdentifier):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "no_identifier"})
	case errors.Is(err, external.ErrUnknownFormat):
		respondBadRequest(c, err.Error())
	default:
		respondInternalError(c, err, context)
	}
}

// --- Success Response Helpers ---

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// respondAccepted sends a 202 Accepted response (for async operations).
func respondAccepted(c *gin.Context, message string, data any) {
	c.JSON(http.StatusAccepted, SuccessResponse{Message: message, Data: data})
}

// respondDocument writes an external document with its content type.
func respondDocument(c *gin.Context, status int, format external.Format, data []byte) {
	c.Data(status, format.ContentType(), data)
}

// --- Parameter Parsing ---

// parseIDParam extracts and validates an unsigned integer ID from URL parameters.
// Returns the parsed ID or responds with a 400 error and returns 0, false.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return uint(id), true
}

// parseFormatQuery reads the "format" query parameter, falling back to def.
func parseFormatQuery(c *gin.Context, def external.Format) (external.Format, bool) {
	name := c.Query("format")
	if name == "" {
		return def, true
	}
	format, err := external.ParseFormat(name)
	if err != nil {
		respondBadRequest(c, err.Error())
		return "", false
	}
	return format, true
}

// querySync reports whether the caller asked for loaded relations.
func querySync(c *gin.Context) bool {
	sync, _ := strconv.ParseBool(c.Query("sync"))
	return sync
}
