package manufacturer

import (
	"carrest/internal/domain"
)

// Repository defines the interface for Manufacturer persistence.
type Repository interface {
	domain.CatalogRepository[*Manufacturer]
}
