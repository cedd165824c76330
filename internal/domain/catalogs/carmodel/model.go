// Package carmodel provides the CarModel catalog.
package carmodel

import (
	"context"

	"carrest/internal/core/entity"
)

// EntityName is the display name used in API messages.
const EntityName = "Car model"

// CarModel is a model line that at most one car is bound to.
type CarModel struct {
	entity.Catalog
}

// NewCarModel creates an unsaved CarModel.
func NewCarModel(name string) *CarModel {
	return &CarModel{Catalog: entity.NewCatalog(name)}
}

// Validate implements entity.Validatable interface.
func (cm *CarModel) Validate(ctx context.Context) error {
	return cm.Catalog.Validate(ctx)
}
