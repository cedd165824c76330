package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"carrest/internal/core/entity"
	"carrest/internal/core/id"
	"carrest/internal/domain"
	"carrest/internal/infrastructure/http/v1/dto"
)

// CatalogService is the service surface used by CatalogHandler.
// Satisfied by domain.CatalogService and the catalog services embedding it.
type CatalogService[T entity.Named] interface {
	Create(ctx context.Context, entity T) error
	GetByID(ctx context.Context, id id.ID) (T, error)
	Update(ctx context.Context, input T) (T, error)
	Delete(ctx context.Context, id id.ID) error
	List(ctx context.Context, req domain.PageRequest) (domain.Page[T], error)
}

// CatalogHandler provides generic HTTP handlers for catalog entities.
// D is the wire DTO used for both requests and responses.
type CatalogHandler[T entity.Named, D any] struct {
	*BaseHandler
	service CatalogService[T]

	// Mapper functions
	toEntity func(dto D) T
	toDTO    func(entity T) D
}

// CatalogHandlerConfig configures the catalog handler.
type CatalogHandlerConfig[T entity.Named, D any] struct {
	Service  CatalogService[T]
	ToEntity func(dto D) T
	ToDTO    func(entity T) D
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler[T entity.Named, D any](
	base *BaseHandler,
	cfg CatalogHandlerConfig[T, D],
) *CatalogHandler[T, D] {
	return &CatalogHandler[T, D]{
		BaseHandler: base,
		service:     cfg.Service,
		toEntity:    cfg.ToEntity,
		toDTO:       cfg.ToDTO,
	}
}

// List handles GET /{entity} - sorted page.
func (h *CatalogHandler[T, D]) List(c *gin.Context) {
	req, ok := h.ParsePageRequest(c)
	if !ok {
		return
	}

	page, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewPageResponse(page, h.toDTO))
}

// Get handles GET /{entity}/:id - get single entity.
func (h *CatalogHandler[T, D]) Get(c *gin.Context) {
	entityID, ok := h.ParseID(c)
	if !ok {
		return
	}

	entity, err := h.service.GetByID(c.Request.Context(), entityID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, h.toDTO(entity))
}

// Create handles POST /{entity} - create new entity.
func (h *CatalogHandler[T, D]) Create(c *gin.Context) {
	body, ok := bindBody[D](h.BaseHandler, c)
	if !ok {
		return
	}

	var entity T
	if body != nil {
		entity = h.toEntity(*body)
		entity.SetID(0)
	}

	if err := h.service.Create(c.Request.Context(), entity); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, h.toDTO(entity))
}

// Update handles PUT /{entity} - the ID is taken from the body.
func (h *CatalogHandler[T, D]) Update(c *gin.Context) {
	body, ok := bindBody[D](h.BaseHandler, c)
	if !ok {
		return
	}

	var input T
	if body != nil {
		input = h.toEntity(*body)
	}

	updated, err := h.service.Update(c.Request.Context(), input)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, h.toDTO(updated))
}

// Delete handles DELETE /{entity}/:id - physical delete.
func (h *CatalogHandler[T, D]) Delete(c *gin.Context) {
	entityID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), entityID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
