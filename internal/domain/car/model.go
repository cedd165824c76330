// Package car provides the Car aggregate: a manufacture year plus references
// to a manufacturer, a car model and a category.
package car

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"carrest/internal/core/entity"
	"carrest/internal/core/id"
	"carrest/internal/domain/catalogs/carmodel"
	"carrest/internal/domain/catalogs/category"
	"carrest/internal/domain/catalogs/manufacturer"
)

// EntityName is the display name used in API messages.
const EntityName = "Car"

// Storage constraint names. Both storage providers report violations under these names.
const (
	ConstraintCarModelUnique = "uq_cars_car_model"
	ConstraintManufacturerFK = "fk_cars_manufacturer"
	ConstraintCarModelFK     = "fk_cars_car_model"
	ConstraintCategoryFK     = "fk_cars_category"
)

// Car is a vehicle. References are loaded with their names on read;
// on write only the referenced IDs matter.
type Car struct {
	entity.BaseEntity

	ManufactureYear int `db:"manufacture_year" json:"manufactureYear"`

	Manufacturer manufacturer.Manufacturer `db:"manufacturer" json:"manufacturer"`
	CarModel     carmodel.CarModel         `db:"car_model" json:"carModel"`
	Category     category.Category         `db:"category" json:"category"`
}

// NewCar creates an unsaved Car referencing existing catalog entries by ID.
func NewCar(year int, manufacturerID, carModelID, categoryID id.ID) *Car {
	c := &Car{ManufactureYear: year}
	c.Manufacturer.ID = manufacturerID
	c.CarModel.ID = carModelID
	c.Category.ID = categoryID
	return c
}

// Validate implements entity.Validatable interface.
func (c *Car) Validate(ctx context.Context) error {
	return validation.Errors{
		"manufactureYear": validation.Validate(c.ManufactureYear,
			validation.Required.Error("must be a positive year"),
			validation.Min(1).Error("must be a positive year"),
		),
		"manufacturer": validation.Validate(c.Manufacturer.ID, validation.Required.Error("is required")),
		"carModel":     validation.Validate(c.CarModel.ID, validation.Required.Error("is required")),
		"category":     validation.Validate(c.Category.ID, validation.Required.Error("is required")),
	}.Filter()
}

// Patch carries a partial update. Nil fields keep the stored value.
type Patch struct {
	ID              id.ID
	ManufactureYear *int
	ManufacturerID  *id.ID
	CarModelID      *id.ID
	CategoryID      *id.ID
}

// Apply merges the supplied fields into c and reports which references changed.
func (p *Patch) Apply(c *Car) (changed References) {
	if p.ManufactureYear != nil {
		c.ManufactureYear = *p.ManufactureYear
	}
	if p.ManufacturerID != nil && *p.ManufacturerID != c.Manufacturer.ID {
		c.Manufacturer = manufacturer.Manufacturer{}
		c.Manufacturer.ID = *p.ManufacturerID
		changed.Manufacturer = true
	}
	if p.CarModelID != nil && *p.CarModelID != c.CarModel.ID {
		c.CarModel = carmodel.CarModel{}
		c.CarModel.ID = *p.CarModelID
		changed.CarModel = true
	}
	if p.CategoryID != nil && *p.CategoryID != c.Category.ID {
		c.Category = category.Category{}
		c.Category.ID = *p.CategoryID
		changed.Category = true
	}
	return changed
}

// References flags which of the three references take part in a check.
type References struct {
	Manufacturer bool
	CarModel     bool
	Category     bool
}

// AllReferences is used on create, where every reference is new.
var AllReferences = References{Manufacturer: true, CarModel: true, Category: true}
