package manufacturer

import (
	"carrest/internal/core/tx"
	"carrest/internal/domain"
)

// Sort keys understood by every Repository implementation.
const (
	SortKeyID   = "id"
	SortKeyName = "name"
)

// SortFields is the allow-list of API sort fields.
var SortFields = domain.SortFields{
	"manufacturerId":   SortKeyID,
	"manufacturerName": SortKeyName,
}

// DefaultSortField is applied when the client sends no sortField.
const DefaultSortField = "manufacturerId"

// Service provides business logic for the Manufacturer catalog.
type Service struct {
	*domain.CatalogService[*Manufacturer]
}

// NewService creates a new Manufacturer service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Manufacturer]{
		Repo:        repo,
		TxManager:   txManager,
		EntityName:  EntityName,
		SortFields:  SortFields,
		DefaultSort: DefaultSortField,
	})

	return &Service{
		CatalogService: base,
	}
}
