// Package category provides the Category catalog.
package category

import (
	"context"

	"carrest/internal/core/entity"
)

// EntityName is the display name used in API messages.
const EntityName = "Category"

// Category is a vehicle class such as SUV or sedan.
type Category struct {
	entity.Catalog
}

// NewCategory creates an unsaved Category.
func NewCategory(name string) *Category {
	return &Category{Catalog: entity.NewCatalog(name)}
}

// Validate implements entity.Validatable interface.
func (c *Category) Validate(ctx context.Context) error {
	return c.Catalog.Validate(ctx)
}
