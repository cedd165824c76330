package dto

import (
	"carrest/internal/core/id"
	"carrest/internal/domain/car"
)

// --- Request DTOs ---

// CarRequest is the request body for creating or updating a car.
// References are given by ID; names in the nested objects are ignored.
type CarRequest struct {
	CarID           id.ID         `json:"carId"`
	ManufactureYear *int          `json:"manufactureYear"`
	Manufacturer    *Manufacturer `json:"manufacturer"`
	CarModel        *CarModel     `json:"carModel"`
	Category        *Category     `json:"category"`
}

// ToEntity converts a create request to a domain entity.
// Missing fields stay zero and fail validation.
func (r *CarRequest) ToEntity() *car.Car {
	p := r.ToPatch()
	c := car.NewCar(0, 0, 0, 0)
	p.Apply(c)
	return c
}

// ToPatch converts an update request to a partial update.
func (r *CarRequest) ToPatch() *car.Patch {
	p := &car.Patch{ID: r.CarID, ManufactureYear: r.ManufactureYear}
	if r.Manufacturer != nil {
		p.ManufacturerID = &r.Manufacturer.ManufacturerID
	}
	if r.CarModel != nil {
		p.CarModelID = &r.CarModel.CarModelID
	}
	if r.Category != nil {
		p.CategoryID = &r.Category.CategoryID
	}
	return p
}

// --- Response DTOs ---

// CarResponse embeds the referenced catalog entries.
type CarResponse struct {
	CarID           id.ID        `json:"carId"`
	ManufactureYear int          `json:"manufactureYear"`
	Manufacturer    Manufacturer `json:"manufacturer"`
	CarModel        CarModel     `json:"carModel"`
	Category        Category     `json:"category"`
}

// FromCar converts domain entity to DTO.
func FromCar(c *car.Car) CarResponse {
	return CarResponse{
		CarID:           c.ID,
		ManufactureYear: c.ManufactureYear,
		Manufacturer:    FromManufacturer(&c.Manufacturer),
		CarModel:        FromCarModel(&c.CarModel),
		Category:        FromCategory(&c.Category),
	}
}
