package dto

import (
	"carrest/internal/core/id"
	"carrest/internal/domain/catalogs/carmodel"
	"carrest/internal/domain/catalogs/category"
	"carrest/internal/domain/catalogs/manufacturer"
)

// Catalog DTOs serve as both request and response bodies.
// On update the ID travels in the body and an empty name keeps the stored one.

// --- Manufacturer ---

type Manufacturer struct {
	ManufacturerID   id.ID  `json:"manufacturerId"`
	ManufacturerName string `json:"manufacturerName"`
}

// ToEntity converts DTO to domain entity.
func (d Manufacturer) ToEntity() *manufacturer.Manufacturer {
	m := manufacturer.NewManufacturer(d.ManufacturerName)
	m.ID = d.ManufacturerID
	return m
}

// FromManufacturer converts domain entity to DTO.
func FromManufacturer(m *manufacturer.Manufacturer) Manufacturer {
	return Manufacturer{ManufacturerID: m.ID, ManufacturerName: m.Name}
}

// --- Category ---

type Category struct {
	CategoryID   id.ID  `json:"categoryId"`
	CategoryName string `json:"categoryName"`
}

// ToEntity converts DTO to domain entity.
func (d Category) ToEntity() *category.Category {
	c := category.NewCategory(d.CategoryName)
	c.ID = d.CategoryID
	return c
}

// FromCategory converts domain entity to DTO.
func FromCategory(c *category.Category) Category {
	return Category{CategoryID: c.ID, CategoryName: c.Name}
}

// --- Car model ---

type CarModel struct {
	CarModelID   id.ID  `json:"carModelId"`
	CarModelName string `json:"carModelName"`
}

// ToEntity converts DTO to domain entity.
func (d CarModel) ToEntity() *carmodel.CarModel {
	cm := carmodel.NewCarModel(d.CarModelName)
	cm.ID = d.CarModelID
	return cm
}

// FromCarModel converts domain entity to DTO.
func FromCarModel(cm *carmodel.CarModel) CarModel {
	return CarModel{CarModelID: cm.ID, CarModelName: cm.Name}
}
