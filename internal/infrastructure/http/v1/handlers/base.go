// Package handlers provides HTTP request handlers.
package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"carrest/internal/core/apperror"
	"carrest/internal/core/id"
	"carrest/internal/domain"
)

// Query parameters of paged lists.
const (
	QueryOffset        = "offset"
	QueryPageSize      = "pageSize"
	QuerySortField     = "sortField"
	QuerySortDirection = "sortDirection"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// Error registers error on Gin context and aborts request.
// Actual JSON response is produced by middleware.ErrorHandler.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ParseID parses the :id path parameter.
func (h *BaseHandler) ParseID(c *gin.Context) (id.ID, bool) {
	raw := c.Param("id")
	parsed, err := id.Parse(raw)
	if err != nil {
		h.Error(c, apperror.NewValidation(fmt.Sprintf("Invalid id : %s", raw)).WithCause(err))
		return 0, false
	}
	return parsed, true
}

// ParsePageRequest reads offset, pageSize, sortField and sortDirection.
// Range checks happen in the service; only the number format is checked here.
func (h *BaseHandler) ParsePageRequest(c *gin.Context) (domain.PageRequest, bool) {
	req := domain.DefaultPageRequest()

	if raw := c.Query(QueryOffset); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("Offset must be a non-negative integer."))
			return req, false
		}
		req.Offset = v
	}

	if raw := c.Query(QueryPageSize); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("Page size must be a positive integer."))
			return req, false
		}
		req.PageSize = v
	}

	dir, err := domain.ParseSortDirection(c.Query(QuerySortDirection))
	if err != nil {
		h.Error(c, err)
		return req, false
	}
	req.Direction = dir
	req.SortField = c.Query(QuerySortField)

	return req, true
}

// bindBody decodes the JSON body into D. An empty or "null" body yields nil
// so services can report the missing payload themselves.
func bindBody[D any](h *BaseHandler, c *gin.Context) (*D, bool) {
	raw, err := c.GetRawData()
	if err != nil {
		h.Error(c, apperror.NewValidation("Unable to read request body.").WithCause(err))
		return nil, false
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, true
	}

	var body D
	if err := binding.JSON.BindBody(trimmed, &body); err != nil {
		h.Error(c, apperror.NewValidation("Malformed JSON request.").
			WithDetail("error", err.Error()).
			WithCause(err))
		return nil, false
	}
	return &body, true
}

// Created sends 201 response with data.
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// OK sends 200 response with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// NoContent sends 204 response.
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
