package handlers

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"carrest/internal/core/apperror"
	"carrest/internal/core/id"
	"carrest/internal/domain/audit"
)

// AuditReader reads the audit trail of one entity.
type AuditReader interface {
	History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]audit.Entry, error)
}

// AuditHandler serves GET /audit/:entityType/:id.
type AuditHandler struct {
	*BaseHandler
	reader AuditReader
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(base *BaseHandler, reader AuditReader) *AuditHandler {
	return &AuditHandler{BaseHandler: base, reader: reader}
}

// History returns the newest audit entries, newest first.
func (h *AuditHandler) History(c *gin.Context) {
	entityType := c.Param("entityType")
	if !audit.IsKnownEntityType(entityType) {
		h.Error(c, apperror.NewValidation(fmt.Sprintf("Unknown entity type : %s", entityType)))
		return
	}

	entityID, ok := h.ParseID(c)
	if !ok {
		return
	}

	limit := audit.DefaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			h.Error(c, apperror.NewValidation("Limit must be a positive integer."))
			return
		}
		limit = v
	}

	entries, err := h.reader.History(c.Request.Context(), entityType, entityID, limit)
	if err != nil {
		h.Error(c, apperror.NewInternal(fmt.Errorf("audit history: %w", err)))
		return
	}
	if entries == nil {
		entries = []audit.Entry{}
	}

	h.OK(c, entries)
}
