package entity

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// MaxNameLength bounds catalog names (matches the varchar size in storage).
const MaxNameLength = 255

// Named is implemented by reference catalogs: entities identified by a unique name.
type Named interface {
	Validatable
	Identifiable
	GetName() string
	SetName(name string)
}

// Catalog is the base type for reference data (manufacturers, categories, car models).
type Catalog struct {
	BaseEntity

	// Name is the unique display name
	Name string `db:"name" json:"name"`
}

// NewCatalog creates a new unsaved Catalog.
func NewCatalog(name string) Catalog {
	return Catalog{Name: name}
}

// GetName returns the catalog name.
func (c *Catalog) GetName() string {
	return c.Name
}

// SetName replaces the catalog name.
func (c *Catalog) SetName(name string) {
	c.Name = name
}

// Validate implements Validatable interface.
func (c *Catalog) Validate(ctx context.Context) error {
	return validation.ValidateStructWithContext(ctx, c,
		validation.Field(&c.Name,
			validation.Required.Error("cannot be empty"),
			validation.RuneLength(1, MaxNameLength),
		),
	)
}
