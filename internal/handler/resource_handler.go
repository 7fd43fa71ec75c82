package handler

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-api/internal/service"
	appErrors "github.com/noah-isme/school-api/pkg/errors"
	"github.com/noah-isme/school-api/pkg/response"
)

// ResourceHandler exposes a service.Resource as a REST collection:
//
//	GET    /<resources>      list
//	POST   /<resources>      create
//	GET    /<resources>/:id  get
//	PUT    /<resources>/:id  full replace
//	PATCH  /<resources>/:id  partial update
//	DELETE /<resources>/:id  delete
type ResourceHandler[T any, C any, U any, P any] struct {
	service service.Resource[T, C, U, P]
	entity  string
}

// NewResourceHandler constructs a handler for one entity type. entity is the
// singular name used in error messages.
func NewResourceHandler[T any, C any, U any, P any](svc service.Resource[T, C, U, P], entity string) *ResourceHandler[T, C, U, P] {
	return &ResourceHandler[T, C, U, P]{service: svc, entity: entity}
}

// Register mounts the collection and item routes under group/path.
func (h *ResourceHandler[T, C, U, P]) Register(group *gin.RouterGroup, path string, middlewares ...gin.HandlerFunc) {
	routes := group.Group(path, middlewares...)
	routes.GET("", h.List)
	routes.POST("", h.Create)
	routes.GET("/:id", h.Get)
	routes.PUT("/:id", h.Update)
	routes.PATCH("/:id", h.Patch)
	routes.DELETE("/:id", h.Delete)
}

// List responds with every record; an empty collection is 200 with [].
func (h *ResourceHandler[T, C, U, P]) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// Get responds with a single record.
func (h *ResourceHandler[T, C, U, P]) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	item, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, item)
}

// Create binds the create payload and responds 201 with the stored record.
func (h *ResourceHandler[T, C, U, P]) Create(c *gin.Context) {
	var req C
	if !h.bind(c, &req) {
		return
	}
	item, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update replaces a record.
func (h *ResourceHandler[T, C, U, P]) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req U
	if !h.bind(c, &req) {
		return
	}
	item, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, item)
}

// Patch updates only the fields present in the body.
func (h *ResourceHandler[T, C, U, P]) Patch(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req P
	if !h.bind(c, &req) {
		return
	}
	item, err := h.service.Patch(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, item)
}

// Delete removes a record and responds 204 with no body.
func (h *ResourceHandler[T, C, U, P]) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func (h *ResourceHandler[T, C, U, P]) parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid %s id", h.entity)).
			WithDetails("id must be a positive integer"))
		return 0, false
	}
	return id, true
}

func (h *ResourceHandler[T, C, U, P]) bind(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Cause(appErrors.ErrValidation, err, fmt.Sprintf("invalid %s payload", h.entity)).
			WithDetails(err.Error()))
		return false
	}
	return true
}
