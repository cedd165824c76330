package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"carrest/internal/core/id"
	"carrest/internal/domain"
	"carrest/internal/domain/car"
	"carrest/internal/infrastructure/http/v1/dto"
)

// CarService is the service surface used by CarHandler.
type CarService interface {
	Create(ctx context.Context, c *car.Car) (*car.Car, error)
	GetByID(ctx context.Context, id id.ID) (*car.Car, error)
	Update(ctx context.Context, p *car.Patch) (*car.Car, error)
	Delete(ctx context.Context, id id.ID) error
	List(ctx context.Context, req domain.PageRequest) (domain.Page[*car.Car], error)
	ListByManufacturer(ctx context.Context, manufacturerID id.ID, req domain.PageRequest) (domain.Page[*car.Car], error)
	ListByCategory(ctx context.Context, categoryID id.ID, req domain.PageRequest) (domain.Page[*car.Car], error)
	GetByCarModel(ctx context.Context, carModelID id.ID) (*car.Car, error)
}

// CarHandler handles HTTP requests for cars and the car back-references
// of the catalogs.
type CarHandler struct {
	*BaseHandler
	service CarService
}

// NewCarHandler creates a new car handler.
func NewCarHandler(base *BaseHandler, service CarService) *CarHandler {
	return &CarHandler{BaseHandler: base, service: service}
}

// List handles GET /cars.
func (h *CarHandler) List(c *gin.Context) {
	h.listWith(c, h.service.List)
}

// Get handles GET /cars/:id.
func (h *CarHandler) Get(c *gin.Context) {
	carID, ok := h.ParseID(c)
	if !ok {
		return
	}

	found, err := h.service.GetByID(c.Request.Context(), carID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromCar(found))
}

// Create handles POST /cars.
func (h *CarHandler) Create(c *gin.Context) {
	body, ok := bindBody[dto.CarRequest](h.BaseHandler, c)
	if !ok {
		return
	}

	var input *car.Car
	if body != nil {
		input = body.ToEntity()
	}

	created, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromCar(created))
}

// Update handles PUT /cars - the ID is taken from the body.
func (h *CarHandler) Update(c *gin.Context) {
	body, ok := bindBody[dto.CarRequest](h.BaseHandler, c)
	if !ok {
		return
	}

	var patch *car.Patch
	if body != nil {
		patch = body.ToPatch()
	}

	updated, err := h.service.Update(c.Request.Context(), patch)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromCar(updated))
}

// Delete handles DELETE /cars/:id.
func (h *CarHandler) Delete(c *gin.Context) {
	carID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), carID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// ListByManufacturer handles GET /manufacturers/:id/cars.
func (h *CarHandler) ListByManufacturer(c *gin.Context) {
	h.listByParent(c, h.service.ListByManufacturer)
}

// ListByCategory handles GET /categories/:id/cars.
func (h *CarHandler) ListByCategory(c *gin.Context) {
	h.listByParent(c, h.service.ListByCategory)
}

// GetByCarModel handles GET /car-models/:id/car.
func (h *CarHandler) GetByCarModel(c *gin.Context) {
	carModelID, ok := h.ParseID(c)
	if !ok {
		return
	}

	found, err := h.service.GetByCarModel(c.Request.Context(), carModelID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromCar(found))
}

type listFunc func(ctx context.Context, req domain.PageRequest) (domain.Page[*car.Car], error)

type listByParentFunc func(ctx context.Context, parentID id.ID, req domain.PageRequest) (domain.Page[*car.Car], error)

func (h *CarHandler) listByParent(c *gin.Context, fn listByParentFunc) {
	parentID, ok := h.ParseID(c)
	if !ok {
		return
	}
	h.listWith(c, func(ctx context.Context, req domain.PageRequest) (domain.Page[*car.Car], error) {
		return fn(ctx, parentID, req)
	})
}

func (h *CarHandler) listWith(c *gin.Context, fn listFunc) {
	req, ok := h.ParsePageRequest(c)
	if !ok {
		return
	}

	page, err := fn(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewPageResponse(page, dto.FromCar))
}
