package category

import (
	"carrest/internal/core/tx"
	"carrest/internal/domain"
)

// Sort keys shared by the postgres and memory repositories.
const (
	SortKeyID   = "id"
	SortKeyName = "name"
)

// SortFields is the allow-list of API sort fields.
var SortFields = domain.SortFields{
	"categoryId":   SortKeyID,
	"categoryName": SortKeyName,
}

// DefaultSortField is applied when the client sends no sortField.
const DefaultSortField = "categoryId"

// Service provides business logic for the Category catalog.
type Service struct {
	*domain.CatalogService[*Category]
}

// NewService creates a new Category service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Category]{
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
