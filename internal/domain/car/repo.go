package car

import (
	"context"

	"carrest/internal/core/id"
	"carrest/internal/domain"
)

// Sort keys shared by the postgres and memory repositories.
const (
	SortKeyID           = "id"
	SortKeyYear         = "manufacture_year"
	SortKeyManufacturer = "manufacturer"
	SortKeyCarModel     = "car_model"
	SortKeyCategory     = "category"
)

// Filter narrows a car listing to one manufacturer or category.
type Filter struct {
	domain.ListFilter

	ManufacturerID *id.ID
	CategoryID     *id.ID
}

// Repository defines the interface for Car persistence.
// Reads return cars with their references' names populated.
type Repository interface {
	// Create inserts a new car and assigns its ID
	Create(ctx context.Context, car *Car) error

	GetByID(ctx context.Context, id id.ID) (*Car, error)

	// Update rewrites year and reference columns
	Update(ctx context.Context, car *Car) error

	Delete(ctx context.Context, id id.ID) error

	List(ctx context.Context, filter Filter) (domain.ListResult[*Car], error)

	// FindByCarModel returns the single car bound to a car model
	FindByCarModel(ctx context.Context, carModelID id.ID) (*Car, error)

	ExistsByCarModel(ctx context.Context, carModelID id.ID) (bool, error)
}

// ReferenceChecker reports whether a referenced catalog entry exists.
// Satisfied by the catalog repositories and services.
type ReferenceChecker interface {
	Exists(ctx context.Context, id id.ID) (bool, error)
}
