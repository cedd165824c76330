package carmodel

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
	"carModelId":   SortKeyID,
	"carModelName": SortKeyName,
}

// DefaultSortField is applied when the client sends no sortField.
const DefaultSortField = "carModelId"

// Service provides business logic for the CarModel catalog.
type Service struct {
	*domain.CatalogService[*CarModel]
}

// NewService creates a new CarModel service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*CarModel]{
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
