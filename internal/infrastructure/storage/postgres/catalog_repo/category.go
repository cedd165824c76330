package catalog_repo

import (
	"carrest/internal/domain/catalogs/category"
	"carrest/internal/infrastructure/storage/postgres"
)

// CategoryTable describes the categories table.
var CategoryTable = TableSpec{
	Table:      "categories",
	IDColumn:   "category_id",
	NameColumn: "category_name",
}

var _ category.Repository = (*CategoryRepo)(nil)

// CategoryRepo implements category.Repository.
type CategoryRepo struct {
	*BaseCatalogRepo[*category.Category]
}

// NewCategoryRepo creates a new category repository.
func NewCategoryRepo(txManager *postgres.TxManager) *CategoryRepo {
	return &CategoryRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			CategoryTable,
			postgres.ExtractDBColumns[category.Category](),
			func() *category.Category { return &category.Category{} },
		),
	}
}
