package catalog_repo

import (
	"carrest/internal/domain/catalogs/manufacturer"
	"carrest/internal/infrastructure/storage/postgres"
)

// ManufacturerTable describes the manufacturers table.
var ManufacturerTable = TableSpec{
	Table:      "manufacturers",
	IDColumn:   "manufacturer_id",
	NameColumn: "manufacturer_name",
}

// Compile-time check that ManufacturerRepo implements manufacturer.Repository.
var _ manufacturer.Repository = (*ManufacturerRepo)(nil)

// ManufacturerRepo implements manufacturer.Repository.
type ManufacturerRepo struct {
	*BaseCatalogRepo[*manufacturer.Manufacturer]
}

// NewManufacturerRepo creates a new manufacturer repository.
func NewManufacturerRepo(txManager *postgres.TxManager) *ManufacturerRepo {
	return &ManufacturerRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			ManufacturerTable,
			postgres.ExtractDBColumns[manufacturer.Manufacturer](),
			func() *manufacturer.Manufacturer { return &manufacturer.Manufacturer{} },
		),
	}
}
