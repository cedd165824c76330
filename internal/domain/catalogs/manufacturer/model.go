// Package manufacturer provides the Manufacturer catalog.
package manufacturer

import (
	"context"

	"carrest/internal/core/entity"
)

// EntityName is the display name used in API messages.
const EntityName = "Manufacturer"

// Manufacturer is a car maker identified by a unique name.
type Manufacturer struct {
	entity.Catalog
}

// NewManufacturer creates an unsaved Manufacturer.
func NewManufacturer(name string) *Manufacturer {
	return &Manufacturer{Catalog: entity.NewCatalog(name)}
}

// Validate implements entity.Validatable interface.
func (m *Manufacturer) Validate(ctx context.Context) error {
	return m.Catalog.Validate(ctx)
}
