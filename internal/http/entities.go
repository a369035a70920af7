package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/clipcatalog/internal/catalog"
	"github.com/mrlokans/clipcatalog/internal/external"
)

// entityPtr is satisfied by pointers to catalog entity structs.
type entityPtr[T any] interface {
	*T
	catalog.Entity
}

// EntityController serves create, update and read for one entity kind.
type EntityController[T any, P entityPtr[T]] struct {
	catalogs catalog.Factory
	resource string
}

func NewEntityController[T any, P entityPtr[T]](catalogs catalog.Factory, resource string) *EntityController[T, P] {
	return &EntityController[T, P]{catalogs: catalogs, resource: resource}
}

func (ec *EntityController[T, P]) newEntity() P {
	return P(new(T))
}

// Create stores a new entity
// POST /api/{kind}
func (ec *EntityController[T, P]) Create(c *gin.Context) {
	e := ec.newEntity()
	if err := c.ShouldBindJSON(e); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	e.SetIdentifier(0)

	if !ec.save(c, e) {
		return
	}
	respondCreated(c, e)
}

// Update overwrites every column of an existing entity
// PUT /api/{kind}/:id
func (ec *EntityController[T, P]) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	e := ec.newEntity()
	if err := c.ShouldBindJSON(e); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	e.SetIdentifier(id)

	if !ec.save(c, e) {
		return
	}
	c.JSON(http.StatusOK, e)
}

// Get returns one entity
// GET /api/{kind}/:id
func (ec *EntityController[T, P]) Get(c *gin.Context) {
	e, ok := ec.fetch(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, e)
}

// GetXML returns the external XML representation of one entity
// GET /api/{kind}/:id/xml
func (ec *EntityController[T, P]) GetXML(c *gin.Context) {
	e, ok := ec.fetch(c)
	if !ok {
		return
	}

	data, err := catalog.ToExternal(e, external.FormatXML)
	if err != nil {
		respondInternalError(c, err, "render "+ec.resource)
		return
	}
	respondDocument(c, http.StatusOK, external.FormatXML, data)
}

// CreateXML saves an entity read from its XML representation. A document
// carrying an id overwrites that row.
// POST /api/{kind}/xml
func (ec *EntityController[T, P]) CreateXML(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondBadRequest(c, "failed to read request body")
		return
	}

	e := ec.newEntity()
	if err := catalog.FromExternal(body, external.FormatXML, e); err != nil {
		respondBadRequest(c, "invalid document: "+err.Error())
		return
	}

	status := http.StatusOK
	if e.Identifier() == 0 {
		status = http.StatusCreated
	}
	if !ec.save(c, e) {
		return
	}

	data, err := catalog.ToExternal(e, external.FormatXML)
	if err != nil {
		respondInternalError(c, err, "render "+ec.resource)
		return
	}
	respondDocument(c, status, external.FormatXML, data)
}

func (ec *EntityController[T, P]) fetch(c *gin.Context) (P, bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil, false
	}

	ctx := c.Request.Context()
	cat := ec.catalogs()
	defer cat.Close(ctx)

	e := ec.newEntity()
	e.SetIdentifier(id)
	if err := cat.Fetch(ctx, e); err != nil {
		respondCatalogError(c, err, ec.resource, "get "+ec.resource)
		return nil, false
	}
	return e, true
}

func (ec *EntityController[T, P]) save(c *gin.Context, e P) bool {
	ctx := c.Request.Context()
	cat := ec.catalogs()
	defer cat.Close(ctx)

	if err := cat.Save(ctx, e); err != nil {
		respondCatalogError(c, err, ec.resource, "save "+ec.resource)
		return false
	}
	if err := cat.Commit(ctx); err != nil {
		respondInternalError(c, err, "commit "+ec.resource)
		return false
	}
	return true
}
