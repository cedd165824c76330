package carmodel

import (
	"carrest/internal/domain"
)

// Repository defines the interface for CarModel persistence.
type Repository interface {
	domain.CatalogRepository[*CarModel]
}
